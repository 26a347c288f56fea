package handlers

import (
	"net/http"

	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/pagination"
	"github.com/crucial707/asset-tracker/internal/query"
	"github.com/crucial707/asset-tracker/internal/service"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Service *service.UserService
}

// ==========================
// Create User (role defaults to user)
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input models.UserInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

// ==========================
// List Users (page, limit)
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := query.Page(r.URL.Query())

	users, total, err := h.Service.List(r.Context(), p.Limit, p.Offset())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"users":      users,
		"pagination": pagination.NewMeta(p, total),
	})
}

// ==========================
// Update User (admin only)
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	var patch models.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	user, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// ==========================
// Get User By ID
// ==========================
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
