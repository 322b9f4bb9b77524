// File: internal/services/inference/retry_test.go
package inference

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithBackoff(t *testing.T) {
	config := &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := RetryWithBackoff(context.Background(), config, func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("RetryWithBackoff: %v", err)
		}
		if attempts != 3 {
			t.Fatalf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("returns the last error once attempts are exhausted", func(t *testing.T) {
		wantErr := errors.New("persistent")
		attempts := 0
		err := RetryWithBackoff(context.Background(), config, func(ctx context.Context) error {
			attempts++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
		if attempts != 3 {
			t.Fatalf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("cancellation ends the loop without further attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
			attempts++
			cancel()
			return errors.New("transient")
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if attempts != 1 {
			t.Fatalf("attempts = %d, want 1", attempts)
		}
	})
}
