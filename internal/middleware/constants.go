// File: internal/middleware/constants.go
package middleware

import "context"

// Context keys for middleware communication
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)

// RequestIDHeader is echoed back on every response so clients can correlate
// log lines with requests.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext returns the ID assigned by LoggingMiddleware, or ""
// when the request never passed through it.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
