package retry

import (
	"context"
	"time"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// IsRetryable decides whether a failed attempt should be repeated.
type IsRetryable func(err error) bool

const DefaultMaxRetries = 3

// Backoff returns the pause before the given retry (1-based).
// Tests may shorten it.
var Backoff = func(retry int) time.Duration {
	return time.Duration(50*retry) * time.Millisecond // Simple incremental backoff
}

// Try executes an operation with DefaultMaxRetries, retrying every error.
func Try(ctx context.Context, op Operation) error {
	return WithRetries(ctx, op, DefaultMaxRetries, func(error) bool { return true })
}

// WithRetries executes an operation, repeating it up to maxRetries times while
// isRetryable approves the error. A cancelled context stops further attempts
// and the last operation error is returned.
func WithRetries(ctx context.Context, op Operation, maxRetries int, isRetryable IsRetryable) error {
	var err error
	// Loop for initial attempt (attempt = 0) + maxRetries
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == maxRetries || !isRetryable(err) || ctx.Err() != nil {
			return err
		}

		timer := time.NewTimer(Backoff(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}
