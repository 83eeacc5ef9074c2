// Package resilience provides retry, backoff and failure-classification
// primitives shared by the oracle client and the enrichment crawler.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy describes how an operation is retried. The zero value is not
// usable; start from DefaultPolicy or OraclePolicy.
type Policy struct {
	// Attempts is the total number of tries including the first one.
	Attempts int

	// BaseDelay seeds the exponential backoff before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps a single backoff sleep.
	MaxDelay time.Duration

	// Jitter widens each sleep by a random fraction in [-Jitter, +Jitter].
	Jitter float64

	// Classify decides whether an error is worth another attempt. Nil means
	// IsTransient.
	Classify func(error) bool
}

// DefaultPolicy suits ordinary page fetches: 3 tries, quick backoff.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  15 * time.Second,
		Jitter:    0.25,
	}
}

// OraclePolicy suits the LLM endpoint: 5 tries with a wider backoff window
// since rate limiting is the dominant failure there.
func OraclePolicy() Policy {
	return Policy{
		Attempts:  5,
		BaseDelay: 1 * time.Second,
		MaxDelay:  30 * time.Second,
		Jitter:    0.3,
	}
}

// Do runs fn until it succeeds, the error classifies as permanent, the
// attempts are exhausted, or ctx is done. The last error is returned as-is;
// callers unwrap with errors.As when they need the status code.
func Do[T any](ctx context.Context, p Policy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	classify := p.Classify
	if classify == nil {
		classify = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !classify(err) || attempt == p.Attempts {
			break
		}

		delay := p.delay(attempt)
		zap.L().Warn("retrying after transient failure",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

// delay computes the backoff before the retry following the given attempt
// (1-based), exponential with jitter and capped at MaxDelay.
func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	if ceil := float64(p.MaxDelay); d > ceil {
		d = ceil
	}
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * p.Jitter * d
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
