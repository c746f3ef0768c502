package httpapi

import (
	"net/http"

	"setlist/internal/app/admins"
	"setlist/internal/store"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createAdminRequest struct {
	SetupKey string `json:"setup_key"`
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// adminView is the public shape of an admin account.
type adminView struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, admin, err := s.admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		Token   string    `json:"token"`
		User    adminView `json:"user"`
	}{
		Success: true,
		Token:   token,
		User: adminView{
			ID:       admin.ID,
			Username: admin.Username,
			Email:    admin.Email,
			FullName: admin.FullName,
		},
	})
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	admin, err := s.admins.Register(r.Context(), admins.RegisterParams{
		SetupKey: req.SetupKey,
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		User    store.AdminUser `json:"user"`
	}{Success: true, Message: "Admin user created successfully", User: admin})
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	setupKey := r.URL.Query().Get("setup_key")

	users, err := s.admins.List(r.Context(), setupKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool              `json:"success"`
		Users   []store.AdminUser `json:"users"`
	}{Success: true, Users: users})
}
