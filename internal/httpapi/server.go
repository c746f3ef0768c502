package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"setlist/internal/analytics"
	"setlist/internal/app/admins"
	"setlist/internal/catalog"
	"setlist/internal/store"
)

// SongService serves the votable song catalog.
type SongService interface {
	Songs(ctx context.Context) ([]catalog.Song, error)
}

// VoteService coordinates vote reads, writes, and analytics.
type VoteService interface {
	Counts(ctx context.Context) (map[string]int, error)
	UserVotes(ctx context.Context, userID string) ([]string, error)
	Cast(ctx context.Context, songID, userID string) (store.Vote, error)
	Remove(ctx context.Context, songID, userID string) error
	Analytics(ctx context.Context) (analytics.Report, error)
}

// AdminService covers admin registration, login, and session tokens.
type AdminService interface {
	Register(ctx context.Context, params admins.RegisterParams) (store.AdminUser, error)
	Login(ctx context.Context, username, password string) (string, store.AdminUser, error)
	VerifyToken(token string) error
	List(ctx context.Context, setupKey string) ([]store.AdminUser, error)
}

// TelemetryService records page views.
type TelemetryService interface {
	RecordPageView(ctx context.Context, view store.PageView) error
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	songs     SongService
	votes     VoteService
	admins    AdminService
	telemetry TelemetryService
}

// New configures a Server with the given services.
func New(songs SongService, votes VoteService, adminSvc AdminService, telemetry TelemetryService) *Server {
	return &Server{
		songs:     songs,
		votes:     votes,
		admins:    adminSvc,
		telemetry: telemetry,
	}
}

// Routes exposes the HTTP handlers.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/v1/songs", s.handleSongs)

	mux.HandleFunc("GET /api/v1/votes", s.handleVoteCounts)
	mux.HandleFunc("POST /api/v1/votes", s.handleCastVote)
	mux.HandleFunc("DELETE /api/v1/votes", s.handleRemoveVote)
	mux.HandleFunc("GET /api/v1/votes/user", s.handleUserVotes)

	mux.HandleFunc("GET /api/v1/analytics", s.handleAnalytics)

	mux.HandleFunc("POST /api/v1/admin/login", s.handleAdminLogin)
	mux.HandleFunc("POST /api/v1/admin/users", s.handleCreateAdmin)
	mux.HandleFunc("GET /api/v1/admin/users", s.handleListAdmins)

	mux.HandleFunc("POST /api/v1/page-views", s.handlePageView)

	return mux
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Error: message})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *store.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, store.ErrDuplicateVote):
		writeError(w, http.StatusConflict, "You have already voted for this song")
	case errors.Is(err, store.ErrAdminExists):
		writeError(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, admins.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, admins.ErrInvalidSetupKey):
		writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid setup key")
	case errors.Is(err, admins.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, admins.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
