package cache

import (
	"context"
	"errors"
	"time"
)

// Backoff is the retry policy for registry fetches that fill the cache.
// Only failures marked with [Retryable] are retried.
type Backoff struct {
	Attempts int           // total tries, including the first
	Delay    time.Duration // wait before the second try; doubled after each retry
}

// DefaultBackoff tries three times, waiting 1s and then 2s.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// RetryableError marks a transient failure such as a 5xx response or a
// dropped connection.
type RetryableError struct{ Err error }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Do calls fetch until it succeeds, returns a permanent error, or the
// attempts run out. The last error is returned. A cancelled ctx stops the
// wait and returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fetch func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fetch(); err == nil || !IsRetryable(err) {
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

// RetryWithBackoff runs fetch under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fetch func() error) error {
	return DefaultBackoff.Do(ctx, fetch)
}
