package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/asset-tracker/internal/middleware"
	"github.com/crucial707/asset-tracker/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *service.UserService
	Secret []byte
	TTL    time.Duration
}

// ==========================
// Login (email + password, returns a bearer token)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Users.Authenticate(r.Context(), input.Email, input.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		slog.WarnContext(r.Context(), "login failed", "email", input.Email)
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := middleware.NewToken(h.Secret, user.ID, user.Email, user.Role, h.TTL, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// ==========================
// Verify (returns the user behind the bearer token)
// ==========================
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		// Token outlived its user.
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
