package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is wrapped around transient backend failures such as a
// dropped Redis connection.
var ErrBackend = errors.New("cache backend unavailable")

// retryableError marks a failure worth another attempt.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient for RetryWithBackoff. Nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err, or any error it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the first backoff interval; tests shorten it.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or has run retryAttempts times. The wait starts at retryDelay
// and doubles after every failed attempt.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, delay := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, delay = attempt+1, delay*2 {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		err = fn()
	}
	return err
}
