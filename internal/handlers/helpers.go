// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sovereignai/assistant-api/internal/dtos"
	"github.com/sovereignai/assistant-api/internal/services/state"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, dtos.NewErrorResponse(errType, message))
}

// writeStateError maps a state manager error to its HTTP shape. Callers see
// the error's own message for not-found and validation failures; storage
// internals stay out of responses.
func writeStateError(w http.ResponseWriter, err error) {
	switch {
	case state.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case state.IsValidation(err):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "storage_error",
			"The operation could not be completed.")
	}
}

// parsePagination reads skip/limit query parameters with bounded defaults.
func parsePagination(r *http.Request) (skip, limit int) {
	limit = defaultPageLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			skip = n
		}
	}
	return skip, limit
}
