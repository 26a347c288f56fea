package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/asset-tracker/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// writeJSON encodes body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeData sends {"success": true, "data": data}.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

// JSONError sends {"success": false, "message": message}.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// JSONValidationError is JSONError plus field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]any{"success": false, "message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

// writeServiceError maps store, lifecycle and service errors to responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	var terr *apperr.TransitionError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, "validation failed", verr.Fields, http.StatusBadRequest)
	case errors.As(err, &terr):
		JSONError(w, terr.Error(), http.StatusConflict)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperr.ErrDuplicateKey):
		JSONError(w, err.Error(), http.StatusConflict)
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into dst. It writes the error response
// itself and reports false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid "+resource+" id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
