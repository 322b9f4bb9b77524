// File: internal/middleware/logger.go
package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LoggingMiddleware assigns each request an ID, logs the request and
// response details, and echoes the ID back in the X-Request-ID header.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		next.ServeHTTP(wrapper, r.WithContext(ctx))

		log.Printf(
			"Request: %s %s from %s | Status: %d | Duration: %v | ID: %s",
			r.Method,
			r.RequestURI,
			r.RemoteAddr,
			wrapper.statusCode,
			time.Since(start),
			requestID,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code. Flush is
// forwarded so streaming responses keep working behind the wrapper.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
