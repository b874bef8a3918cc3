// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inference

import (
	"context"
	"time"
)

// Limiter enforces a minimum spacing between consecutive inference calls.
// It owns the single time-of-last-call value so the gateway stays
// independently testable. The pipeline is sequential, so Wait has a single
// caller and needs no locking.
type Limiter struct {
	min  time.Duration
	last time.Time

	// now and sleep are injectable so tests run without real waits.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter returns a Limiter with the given minimum inter-call delay.
// A non-positive delay disables the limiter.
func NewLimiter(min time.Duration) *Limiter {
	return &Limiter{
		min:   min,
		now:   time.Now,
		sleep: ctxSleep,
	}
}

// Wait blocks until at least the configured delay has passed since the
// previous call, then records the new call time. It returns early with the
// context's error if the context is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.min > 0 && !l.last.IsZero() {
		elapsed := l.now().Sub(l.last)
		if remaining := l.min - elapsed; remaining > 0 {
			if err := l.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	l.last = l.now()
	return nil
}

// ctxSleep waits for d or until ctx is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
