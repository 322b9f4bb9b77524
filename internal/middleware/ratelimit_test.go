// File: internal/middleware/ratelimit_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sovereignai/assistant-api/internal/ratelimit"
)

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter(&ratelimit.Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Minute,
		BanDuration:   time.Minute,
	})
	defer limiter.Close()

	handler := RateLimitMiddleware(limiter, "test")(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		if rec := send(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected a Retry-After header")
	}

	// A different client is unaffected.
	req := httptest.NewRequest(http.MethodGet, "/v1/assistants", nil)
	req.RemoteAddr = "198.51.100.9:1234"
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, req)
	if other.Code != http.StatusOK {
		t.Fatalf("other client status = %d, want 200", other.Code)
	}
}
