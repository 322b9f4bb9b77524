// In: internal/middleware/recovery.go

package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/sovereignai/assistant-api/internal/dtos"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// This deferred function will execute after the handler,
		// or immediately if a panic occurs.
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %s %s (request %s): %v",
					r.Method, r.RequestURI, RequestIDFromContext(r.Context()), err)

				w.Header().Set("Connection", "close")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(dtos.NewErrorResponse(
					"server_error", "Something went wrong on our end."))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
