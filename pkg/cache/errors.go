package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a transient backend failure (connection refused,
	// timeout, server loading). Such failures are retried.
	ErrNetwork = errors.New("network error")

	// ErrClosed is returned by operations on a closed cache.
	ErrClosed = errors.New("cache closed")
)

// RetryableError marks a failure that is worth another attempt.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryPolicy bounds retries of a cache operation. The delay before the
// n-th retry is BaseDelay << (n-1).
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetry is the policy of new Redis caches.
var DefaultRetry = RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond}

// Do calls fn until it succeeds, returns an error that is not retryable, or
// the attempts run out. The last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.BaseDelay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
