// File: internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKeyMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid key passes through", func(t *testing.T) {
		handler := NewAPIKeyMiddleware("secret")(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing key is unauthorized", func(t *testing.T) {
		handler := NewAPIKeyMiddleware("secret")(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		handler := NewAPIKeyMiddleware("secret")(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		req.Header.Set("X-API-Key", "guess")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unconfigured server rejects everything", func(t *testing.T) {
		handler := NewAPIKeyMiddleware("")(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		req.Header.Set("X-API-Key", "anything")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}
	})
}
