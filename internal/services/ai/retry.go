// File: internal/services/ai/retry.go
package ai

import (
	"context"
	"time"
)

// RetryConfig defines simple retry behavior.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// RetryWithBackoff executes a function with simple retry logic. Only
// transient gateway failures are retried; config, auth and client errors
// return immediately.
func RetryWithBackoff(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}

		// Don't wait after the last attempt.
		if attempt < config.MaxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay * time.Duration(attempt+1)):
			}
		}
	}

	return lastErr
}
