package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gold-spread-tracker/internal/metrics"

	"go.uber.org/zap"
)

// transientError tags failures that are expected to possibly succeed on a
// later attempt: network hiccups, timeouts, exchange-reported errors.
type transientError struct {
	err error
}

func (t *transientError) Error() string { return t.err.Error() }
func (t *transientError) Unwrap() error { return t.err }

// Transient marks err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with Transient or is a net.Error.
// Everything else is treated as a programming or configuration error and is
// never retried.
func IsTransient(err error) bool {
	var tagged *transientError
	if errors.As(err, &tagged) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// ExhaustedError is the single aggregated failure raised after every attempt
// of a labeled operation has failed. It unwraps to the last underlying error.
type ExhaustedError struct {
	Label    string
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Label, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Do runs op up to attempts times, sleeping delay between attempts. Transient
// failures are warn-logged with the label and attempt index; any other error
// returns immediately. The first success wins. Cancelling ctx during the
// inter-attempt sleep aborts with ctx.Err().
func Do[T any](ctx context.Context, log *zap.Logger, m *metrics.Metrics, label string, attempts int, delay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return zero, err
		}
		lastErr = err
		log.Warn("transient failure",
			zap.String("op", label),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		m.RetryAttempts.Inc()
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	m.RetriesExhausted.Inc()
	return zero, &ExhaustedError{Label: label, Attempts: attempts, Err: lastErr}
}
