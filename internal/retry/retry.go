// Package retry provides an explicit retry policy for external service
// calls: bounded attempts with exponential backoff, retrying only errors
// the domain taxonomy marks transient.
package retry

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/cohortlab/channelscout/internal/domain"
)

// Policy controls retry behavior.
type Policy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultPolicy matches the discovery loop's budget: the initial call plus
// two retries, so a flaky unit costs at most three API calls.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	InitialWait: 2 * time.Second,
	MaxWait:     30 * time.Second,
	Multiplier:  2.0,
}

// Do runs fn up to MaxAttempts times, backing off between attempts.
// Only transient errors are retried; quota, invalid-query, and any other
// error return immediately. Context cancellation aborts the wait.
func Do[T any](ctx context.Context, p Policy, label string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetriable(err) {
			return zero, err
		}

		if attempt < p.MaxAttempts {
			wait := p.backoff(attempt)
			log.Printf("retry: %s attempt %d/%d failed, waiting %v: %v", label, attempt, p.MaxAttempts, wait, err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}
	return zero, lastErr
}

func (p Policy) backoff(attempt int) time.Duration {
	wait := time.Duration(float64(p.InitialWait) * math.Pow(p.Multiplier, float64(attempt-1)))
	if wait > p.MaxWait {
		wait = p.MaxWait
	}
	return wait
}

// IsRetriable reports whether an error is worth another attempt.
func IsRetriable(err error) bool {
	return errors.Is(err, domain.ErrTransient)
}
