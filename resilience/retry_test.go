package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/condensit/core"
)

func fastRetryPolicy(maxRetries int) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:     maxRetries,
		RequestTimeout: time.Second,
		BaseDelay:      time.Millisecond,
		MaxDelay:       4 * time.Millisecond,
	}
}

func transientErr() error {
	return fmt.Errorf("%w: status code: 503", core.ErrTransientBackend)
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fastRetryPolicy(3).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversAfterTransientFailures(t *testing.T) {
	calls := 0
	err := fastRetryPolicy(3).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return transientErr()
		}
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := fastRetryPolicy(3).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transientErr()
	}, nil)
	assert.ErrorIs(t, err, core.ErrTransientBackend)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")
}

func TestRetryStopsOnNonTransientError(t *testing.T) {
	fatal := errors.New("schema violation")
	calls := 0
	err := fastRetryPolicy(3).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return fatal
	}, nil)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := &RetryPolicy{
		MaxRetries:     5,
		RequestTimeout: time.Second,
		BaseDelay:      50 * time.Millisecond,
		MaxDelay:       time.Second,
	}
	err := policy.Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return transientErr()
	}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancellation must stop the retry loop")
}

func TestRetryAdmitHookRunsPerRetry(t *testing.T) {
	admits := 0
	calls := 0
	err := fastRetryPolicy(2).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transientErr()
	}, func(ctx context.Context) error {
		admits++
		return nil
	})
	assert.ErrorIs(t, err, core.ErrTransientBackend)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, admits, "admission runs before every retry, not the first attempt")
}

func TestRetryAdmitErrorAborts(t *testing.T) {
	blocked := fmt.Errorf("%w: no slot", core.ErrRateLimitQueueTimeout)
	calls := 0
	err := fastRetryPolicy(3).Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return transientErr()
	}, func(ctx context.Context) error {
		return blocked
	})
	assert.ErrorIs(t, err, core.ErrRateLimitQueueTimeout)
	assert.Equal(t, 1, calls)
}

func TestRetryAttemptTimeoutIsTransient(t *testing.T) {
	policy := &RetryPolicy{
		MaxRetries:     1,
		RequestTimeout: 10 * time.Millisecond,
		BaseDelay:      time.Millisecond,
		MaxDelay:       time.Millisecond,
	}

	calls := 0
	err := policy.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		<-ctx.Done()
		return ctx.Err()
	}, nil)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "a timed-out attempt must still be retried")
}

func TestRetryNegativeMaxRetries(t *testing.T) {
	policy := fastRetryPolicy(-1)
	err := policy.Execute(context.Background(), func(ctx context.Context) error { return nil }, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)
}

func TestDelayExponentialGrowth(t *testing.T) {
	policy := &RetryPolicy{
		BaseDelay: 100 * time.Millisecond,
		MaxDelay:  800 * time.Millisecond,
		// No jitter so the schedule is exact.
	}

	assert.Equal(t, 100*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 200*time.Millisecond, policy.Delay(2))
	assert.Equal(t, 400*time.Millisecond, policy.Delay(3))
	assert.Equal(t, 800*time.Millisecond, policy.Delay(4))
	assert.Equal(t, 800*time.Millisecond, policy.Delay(10), "capped at MaxDelay")
	assert.Equal(t, 100*time.Millisecond, policy.Delay(0), "attempts below one clamp to one")
}

func TestDelayJitterBounds(t *testing.T) {
	policy := &RetryPolicy{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		JitterFactor: 0.1,
	}

	for i := 0; i < 100; i++ {
		delay := policy.Delay(2) // nominal 200ms
		assert.GreaterOrEqual(t, delay, 180*time.Millisecond)
		assert.LessOrEqual(t, delay, 220*time.Millisecond)
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(transientErr()))
	assert.True(t, IsTransient(fmt.Errorf("wrap: %w", core.ErrMalformedResponse)))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(errors.New("some other failure")))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(nil))
}
