// Package ratelimit paces sequential outbound vendor calls.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces a pause after each outbound call. The first call never waits.
// A Throttle is meant to live for a single operation invocation and is shared by every
// call the invocation makes to the same vendor.
type Throttle struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// New creates a Throttle whose default pause is interval.
// A non-positive interval disables throttling.
func New(interval time.Duration) *Throttle {
	return &Throttle{
		limiter:  newLimiter(interval),
		interval: interval,
	}
}

// Wait blocks until the pause started by the last Done has elapsed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Done marks the end of a call and starts the default pause.
func (t *Throttle) Done() {
	t.DoneAfter(t.interval)
}

// DoneAfter marks the end of a call and starts a pause of d. A non-positive d lets the
// next call go immediately.
func (t *Throttle) DoneAfter(d time.Duration) {
	t.limiter = newLimiter(d)
	t.limiter.Allow()
}

func (t *Throttle) Interval() time.Duration {
	return t.interval
}

// newLimiter returns a full bucket of size 1 refilled once per d.
func newLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}
