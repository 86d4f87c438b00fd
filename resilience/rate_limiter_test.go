package resilience

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/condensit/core"
)

func TestRateLimiterAdmitsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 3,
		Window:            time.Minute,
		QueueTimeout:      10 * time.Millisecond,
	})

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.TryAcquire(), "slot %d should be free", i)
	}
	assert.False(t, limiter.TryAcquire(), "window is full")
	assert.Equal(t, 3, limiter.InFlight())
}

func TestRateLimiterQueueTimeout(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 1,
		Window:            time.Minute,
		QueueTimeout:      20 * time.Millisecond,
	})

	require.NoError(t, limiter.Wait(context.Background()))

	// The slot frees only after a full minute; a 20ms queue budget cannot
	// cover that, so the caller must receive the queue timeout error.
	start := time.Now()
	err := limiter.Wait(context.Background())
	assert.ErrorIs(t, err, core.ErrRateLimitQueueTimeout)
	assert.Less(t, time.Since(start), 5*time.Second, "timeout decision must not block for the window")
}

func TestRateLimiterSlidingWindow(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 2,
		Window:            50 * time.Millisecond,
		QueueTimeout:      time.Second,
	})

	require.True(t, limiter.TryAcquire())
	require.True(t, limiter.TryAcquire())
	require.False(t, limiter.TryAcquire())

	// Once the oldest dispatch leaves the window a queued caller gets in.
	require.NoError(t, limiter.Wait(context.Background()))
	assert.LessOrEqual(t, limiter.InFlight(), 2)
}

func TestRateLimiterNeverExceedsWindowCount(t *testing.T) {
	const limit = 5
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: limit,
		Window:            40 * time.Millisecond,
		QueueTimeout:      2 * time.Second,
	})

	var mu sync.Mutex
	var admissions []time.Time

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(context.Background()); err != nil {
				t.Errorf("unexpected wait error: %v", err)
				return
			}
			mu.Lock()
			admissions = append(admissions, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, admissions, 20)

	// No rolling window may contain more than the limit. Allow a small
	// tolerance for the delay between admission and timestamping.
	for _, pivot := range admissions {
		count := 0
		for _, at := range admissions {
			if !at.Before(pivot) && at.Sub(pivot) < 30*time.Millisecond {
				count++
			}
		}
		assert.LessOrEqual(t, count, limit)
	}
}

func TestRateLimiterContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 1,
		Window:            time.Minute,
		QueueTimeout:      time.Minute,
	})
	require.True(t, limiter.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
