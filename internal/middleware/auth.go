// File: internal/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"

	"github.com/sovereignai/assistant-api/internal/dtos"
)

// NewAPIKeyMiddleware creates middleware that validates the shared API key
// from the X-API-Key header. The key is compared in constant time. A server
// started without a configured key rejects every protected request rather
// than silently running open.
func NewAPIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				log.Printf("[AuthMiddleware] API key not configured; rejecting request")
				writeAuthError(w, http.StatusInternalServerError,
					"server_error", "Server authentication is not configured.")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				log.Printf("[AuthMiddleware] Invalid or missing API key from %s", r.RemoteAddr)
				writeAuthError(w, http.StatusUnauthorized,
					"unauthorized", "Invalid or missing API key.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dtos.NewErrorResponse(errType, message))
}
