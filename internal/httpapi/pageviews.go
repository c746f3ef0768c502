package httpapi

import (
	"net/http"

	"setlist/internal/store"
)

type pageViewRequest struct {
	PagePath  string `json:"pagePath"`
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handlePageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	view := store.PageView{
		PagePath:  req.PagePath,
		VisitorID: req.VisitorID,
		SessionID: req.SessionID,
		UserAgent: r.Header.Get("User-Agent"),
		Referrer:  r.Header.Get("Referer"),
	}

	if err := s.telemetry.RecordPageView(r.Context(), view); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: true, Message: "Page view logged successfully"})
}
