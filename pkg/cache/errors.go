package cache

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrNetwork marks a backend that could not be reached.
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable wraps err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was wrapped with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// retryDelay is the first backoff step; tests shorten it.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn up to three times, doubling the delay between
// attempts. Only errors wrapped with [Retryable] are retried.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := retryDelay
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// transient wraps network failures as retryable.
func transient(err error) error {
	var ne net.Error
	if errors.As(err, &ne) {
		return Retryable(errors.Join(ErrNetwork, err))
	}
	return err
}
