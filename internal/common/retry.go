package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/visawatch/internal/service"
)

var (
	// ErrRateLimit indicates that a remote API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries indicates that all retry attempts have been exhausted.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError marks an error as worth (or not worth) another attempt.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so WithRetry gives up immediately.
func Permanent(err error) error {
	return &RetryableError{Err: err, Retryable: false}
}

func withDefaults(opts service.RetryOptions) service.RetryOptions {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 100 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 30 * time.Second
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = 2.0
	}
	return opts
}

// WithRetry runs operation until it succeeds, returns a permanent error,
// the attempts run out or ctx is done. Delays grow exponentially up to MaxDelay.
// Used for idempotent reads only; notification sends are never retried.
func WithRetry(ctx context.Context, operation func() error, opts service.RetryOptions) error {
	opts = withDefaults(opts)
	delay := opts.InitialDelay

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		var retryableErr *RetryableError
		if errors.As(lastErr, &retryableErr) && !retryableErr.Retryable {
			return retryableErr.Err
		}

		if attempt == opts.MaxAttempts {
			break
		}

		if errors.Is(lastErr, ErrRateLimit) {
			delay = opts.MaxDelay
		}

		slog.Warn("operation failed, retrying",
			"attempt", attempt,
			"max_attempts", opts.MaxAttempts,
			"delay", delay,
			"error", lastErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*opts.Multiplier), opts.MaxDelay)
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, opts.MaxAttempts, lastErr)
}
