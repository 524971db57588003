package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure worth another attempt, such as a refused
// connection.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, is retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry schedule: up to Attempts calls, the first retry after
// Delay, doubling each time but never beyond Max (when set).
type Backoff struct {
	Attempts int
	Delay    time.Duration
	Max      time.Duration
}

// DefaultBackoff is used when connecting to Redis and MongoDB.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 500 * time.Millisecond, Max: 5 * time.Second}

// Do calls fn with the 1-based attempt number until it succeeds, fails with
// an error not marked [Retryable], or the attempts run out. The last error
// is returned; a cancelled ctx interrupts the wait and returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil || !IsRetryable(err) || attempt == attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
}

// Retry is shorthand for an uncapped Backoff that ignores the attempt number.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, func(int) error { return fn() })
}
