package limiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter
// Specialized component to enforce the minimum interval between crawl
// dequeues.
// Responsibilities:
// - Bookkeep the last dequeue timestamp
// - Block callers until the configured interval has elapsed
// - Act as a hard floor on throughput, never a target
type RateLimiter interface {
	SetMinInterval(interval time.Duration)
	Wait(ctx context.Context) error
}

// IntervalLimiter serializes callers behind a single mutex so that parallel
// workers sharing one limiter still observe the at-most-one-dequeue-per-
// interval invariant.
type IntervalLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	lastAt      time.Time
}

func NewIntervalLimiter(minInterval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		minInterval: minInterval,
	}
}

func (l *IntervalLimiter) SetMinInterval(interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.minInterval = interval
}

// Wait blocks until minInterval has elapsed since the previous successful
// Wait, then marks now as the new reference point. The first call never
// waits. The mutex is held across the sleep on purpose: concurrent callers
// form a queue and each consumes one full interval.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.minInterval > 0 && !l.lastAt.IsZero() {
		remaining := time.Until(l.lastAt.Add(l.minInterval))
		if remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	l.lastAt = time.Now()
	return nil
}

func (l *IntervalLimiter) GetMinInterval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.minInterval
}
