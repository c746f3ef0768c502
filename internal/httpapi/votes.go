package httpapi

import (
	"net/http"

	"setlist/internal/analytics"
	"setlist/internal/store"
)

type castVoteRequest struct {
	SongID string `json:"songId"`
	UserID string `json:"userId"`
}

func (s *Server) handleVoteCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.votes.Counts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}{Success: true, Data: counts})
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	vote, err := s.votes.Cast(r.Context(), req.SongID, req.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool       `json:"success"`
		Data    store.Vote `json:"data"`
	}{Success: true, Data: vote})
}

func (s *Server) handleRemoveVote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	songID := query.Get("songId")
	userID := query.Get("userId")

	if err := s.votes.Remove(r.Context(), songID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: true, Message: "Vote removed successfully"})
}

func (s *Server) handleUserVotes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	songIDs, err := s.votes.UserVotes(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if songIDs == nil {
		songIDs = []string{}
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
	}{Success: true, Data: songIDs})
}

// handleAnalytics serves the dashboard report. It requires a valid admin
// session token.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := s.admins.VerifyToken(token); err != nil {
		writeServiceError(w, err)
		return
	}

	report, err := s.votes.Analytics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool             `json:"success"`
		Data    analytics.Report `json:"data"`
	}{Success: true, Data: report})
}
