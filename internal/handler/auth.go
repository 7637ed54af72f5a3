package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/skarim/autotrack/internal/auth"
	"github.com/skarim/autotrack/internal/model"
	"github.com/skarim/autotrack/internal/service"
)

// AuthHandler serves registration, login, and the informational
// identity routes (/api/profile, /api/admin/dashboard).
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// BODY: {"username": "...", "password": "...", "role": "user"|"admin" (optional)}
//
// 201 on success with the public user fields; 400 when username or
// password is missing; 409 when the username is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Username and password are required"})
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(w, err, "Error registering user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/auth/login
// BODY: {"username": "...", "password": "..."}
//
// The 401 message is identical for unknown usernames and wrong
// passwords — do not "improve" it into two messages.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "Username and password are required"})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err, "Error logging in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User.Public(),
	})
}

// HandleProfile returns the caller's identity as decoded from the token.
//
// HTTP: GET /api/profile (RequireAuth)
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but be safe.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "This is a protected profile route",
		"user": model.PublicUser{
			ID:       ident.UserID,
			Username: ident.Username,
			Role:     ident.Role,
		},
	})
}

// HandleAdminDashboard is the admin-only informational route.
//
// HTTP: GET /api/admin/dashboard (RequireAuth + RequireRole(admin))
func (h *AuthHandler) HandleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "Authentication token required"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to the Admin Dashboard",
		"user": model.PublicUser{
			ID:       ident.UserID,
			Username: ident.Username,
			Role:     ident.Role,
		},
	})
}
