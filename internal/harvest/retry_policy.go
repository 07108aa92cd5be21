package harvest

import (
	"context"
	"time"
)

// RetryPolicy decides how long to wait before the next fetch attempt.
type RetryPolicy interface {
	Backoff(attempt int) time.Duration
}

// LinearRetryPolicy waits base x attempt between attempts.
type LinearRetryPolicy struct {
	base time.Duration
}

// NewLinearRetryPolicy builds a policy from the configured backoff base.
func NewLinearRetryPolicy(base time.Duration) *LinearRetryPolicy {
	if base <= 0 {
		base = 5 * time.Second
	}
	return &LinearRetryPolicy{base: base}
}

// Backoff returns the wait duration after the given 1-based attempt.
func (p *LinearRetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.base * time.Duration(attempt)
}

// pause sleeps for delay, returning early if the context finishes.
func pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
