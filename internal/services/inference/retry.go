// File: internal/services/inference/retry.go
package inference

import (
	"context"
	"time"
)

// RetryConfig defines simple retry behavior
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryConfig provides sensible defaults
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
	}
}

// RetryWithBackoff executes a function with simple retry logic. Only the
// non-streaming path retries: once deltas have been delivered a replay would
// duplicate output. Context cancellation ends the retry loop immediately.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}

		// Don't wait after last attempt
		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return lastErr
			case <-time.After(config.Delay):
			}
		}
	}

	return lastErr
}
