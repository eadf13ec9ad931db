package game

import (
	"context"
	"time"
)

// TickLimiter paces the simulation loop at a fixed tick rate.
type TickLimiter struct {
	rate int
	next time.Time
}

// NewTickLimiter creates a limiter for rate ticks per second. A rate <= 0 never waits.
func NewTickLimiter(rate int) *TickLimiter {
	return &TickLimiter{rate: rate}
}

// Interval returns the target tick duration, or 0 when unpaced.
func (l *TickLimiter) Interval() time.Duration {
	if l.rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(l.rate)
}

// Wait blocks until the next tick is due or ctx is done.
// Uses a hybrid sleep/spin approach for better precision on high tick rates.
func (l *TickLimiter) Wait(ctx context.Context) error {
	target := l.Interval()
	if target == 0 {
		l.next = time.Time{}
		return ctx.Err()
	}

	if l.next.IsZero() {
		l.next = time.Now().Add(target)
	} else {
		l.next = l.next.Add(target)
	}

	if remaining := time.Until(l.next); remaining > 200*time.Microsecond {
		timer := time.NewTimer(remaining - 200*time.Microsecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	// spin out the final few microseconds
	for time.Until(l.next) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// After a slow tick, restart the schedule from now instead of bursting
	// to catch up. The next Wait adds one interval.
	if late := -time.Until(l.next); late > target {
		l.next = time.Now()
	}
	return nil
}
