// File: internal/middleware/logger_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddlewareRequestID(t *testing.T) {
	t.Run("ID in context matches echoed header", func(t *testing.T) {
		var seen string
		handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen == "" {
			t.Fatal("handler saw no request ID in context")
		}
		if echoed := rec.Header().Get(RequestIDHeader); echoed != seen {
			t.Fatalf("header ID = %q, context ID = %q", echoed, seen)
		}
	})

	t.Run("client-supplied ID is kept", func(t *testing.T) {
		var seen string
		handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		req.Header.Set(RequestIDHeader, "client-id-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if seen != "client-id-42" {
			t.Fatalf("context ID = %q, want client-id-42", seen)
		}
		if echoed := rec.Header().Get(RequestIDHeader); echoed != "client-id-42" {
			t.Fatalf("header ID = %q, want client-id-42", echoed)
		}
	})

	t.Run("empty without the middleware", func(t *testing.T) {
		if got := RequestIDFromContext(context.Background()); got != "" {
			t.Fatalf("RequestIDFromContext = %q, want empty", got)
		}
	})
}
