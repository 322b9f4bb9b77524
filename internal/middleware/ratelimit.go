// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/sovereignai/assistant-api/internal/dtos"
	"github.com/sovereignai/assistant-api/internal/ratelimit"
)

// RateLimitMiddleware creates a rate limiting middleware keyed by client IP.
// The name distinguishes limiter pools in logs and identifiers, so the run
// limiter and the general API limiter track the same IP independently.
func RateLimitMiddleware(limiter *ratelimit.MemoryRateLimiter, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := ratelimit.GetClientIP(r)
			identifier := fmt.Sprintf("%s:%s", name, clientIP)

			allowed, info := limiter.Allow(identifier)

			limit := info.Remaining
			if info.Allowed {
				limit++ // if allowed, remaining + 1 = original limit
			}
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))

			if !allowed {
				statusMsg := "RATE LIMITED"
				if info.Banned {
					statusMsg = "BANNED"
				}
				log.Printf("[RateLimit] Blocked %s request from %s - %s",
					name, clientIP, statusMsg)

				if info.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", info.RetryAfter.Seconds()))
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)

				errorMsg := "Too many requests. Please try again later."
				if info.Banned {
					errorMsg = fmt.Sprintf("Request limit exceeded. Try again in %d minutes.",
						int(info.RetryAfter.Minutes()))
				}

				json.NewEncoder(w).Encode(dtos.NewErrorResponse("rate_limited", errorMsg))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
