package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/condensit/core"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerMinute is the maximum number of backend calls admitted in
	// any rolling window. Default: 30
	RequestsPerMinute int

	// Window is the rolling window duration. Default: 1m. Shorter windows
	// are used in tests.
	Window time.Duration

	// QueueTimeout bounds how long a caller may queue for admission before
	// it gives up and proceeds to fallback. Default: 30s
	QueueTimeout time.Duration
}

// DefaultRateLimiterConfig returns the standard defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 30,
		Window:            time.Minute,
		QueueTimeout:      30 * time.Second,
	}
}

// RateLimiter bounds backend call dispatch across all concurrent callers:
// at most RequestsPerMinute dispatches are admitted within any rolling
// Window. Callers queue rather than fail when no slot is free, up to
// QueueTimeout, after which they receive core.ErrRateLimitQueueTimeout.
//
// Thread Safety: safe for concurrent use.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	dispatch []time.Time // admission times inside the current window, oldest first
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	defaults := DefaultRateLimiterConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.QueueTimeout <= 0 {
		config.QueueTimeout = defaults.QueueTimeout
	}
	return &RateLimiter{config: config}
}

// Wait blocks until a dispatch slot is free, the queue timeout elapses, or
// ctx is done. A nil return means one call has been admitted.
func (l *RateLimiter) Wait(ctx context.Context) error {
	deadline := time.Now().Add(l.config.QueueTimeout)

	for {
		next, ok := l.tryAcquire()
		if ok {
			return nil
		}

		if next.After(deadline) {
			return fmt.Errorf("%w: no slot within %v", core.ErrRateLimitQueueTimeout, l.config.QueueTimeout)
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Re-check for a free slot
		}
	}
}

// TryAcquire admits one call if a slot is free, without blocking.
func (l *RateLimiter) TryAcquire() bool {
	_, ok := l.tryAcquire()
	return ok
}

// InFlight returns the number of dispatches inside the current window.
func (l *RateLimiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evict(time.Now())
	return len(l.dispatch)
}

// tryAcquire admits one call if a slot is free. When full it returns the
// time at which the oldest dispatch leaves the window.
func (l *RateLimiter) tryAcquire() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.evict(now)

	if len(l.dispatch) < l.config.RequestsPerMinute {
		l.dispatch = append(l.dispatch, now)
		return time.Time{}, true
	}
	return l.dispatch[0].Add(l.config.Window), false
}

// evict drops dispatches that have left the window. Must be called with
// lock held.
func (l *RateLimiter) evict(now time.Time) {
	cutoff := now.Add(-l.config.Window)
	i := 0
	for i < len(l.dispatch) && !l.dispatch[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.dispatch = l.dispatch[i:]
	}
}
