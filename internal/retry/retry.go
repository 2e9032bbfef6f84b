package retry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds retry configuration. An operation is attempted once plus
// MaxRetries additional times, with a fixed Delay between attempts.
type Config struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultConfig returns a default retry configuration.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Delay:      5 * time.Second,
	}
}

// WithFixedDelay executes operation, retrying retryable failures with a
// fixed delay between attempts. Cancellation of ctx stops further attempts.
func WithFixedDelay(ctx context.Context, config Config, operation func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(config.Delay):
			}
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !IsRetryable(lastErr) {
			return fmt.Errorf("non-retryable error: %w", lastErr)
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}

// IsRetryable determines if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network-level errors are generally retryable.
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// Look for HTTP status codes in error messages.
	// Only 5xx server errors and 429 rate limiting should be retried.
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "status 429") {
		return true
	}

	// Don't retry 4xx client errors (except 429).
	if strings.Contains(errStr, "status 4") {
		return false
	}

	// For unknown errors, err on the side of caution and retry.
	return true
}

// HTTPStatusRetryable checks if an HTTP status code is retryable.
func HTTPStatusRetryable(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}
