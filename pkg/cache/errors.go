package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a Redis failure worth retrying: a dial, timeout or
	// dropped connection.
	ErrNetwork = errors.New("cache unreachable")

	// ErrCacheMiss is what GetJSON reports when no usable result is stored.
	ErrCacheMiss = errors.New("cache miss")
)

// RetryableError flags a transient failure for RetryWithBackoff.
type RetryableError struct{ Err error }

// Retryable flags err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, was flagged by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

var (
	retryAttempts = 3
	retryDelay    = 100 * time.Millisecond
)

// RetryWithBackoff calls fn until it succeeds, fails with an error not flagged
// Retryable, or runs out of attempts. The wait doubles after every retry and
// a cancelled ctx ends it early.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
