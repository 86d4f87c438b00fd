package resilience

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/condensit/core"
)

func fastExecutor(breaker *CircuitBreaker, limiter *RateLimiter) *Executor {
	return NewExecutor(&RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}, breaker, limiter)
}

func TestExecutorSuccessRecordsBreakerSuccess(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})
	breaker.RecordFailure()
	exec := fastExecutor(breaker, nil)

	calls := 0
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	// The success reset the consecutive failure count.
	breaker.RecordFailure()
	assert.Equal(t, CircuitClosed, breaker.State())
}

func TestExecutorFailureOpensBreaker(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})
	exec := fastExecutor(breaker, nil)

	transient := fmt.Errorf("%w: status code: 503", core.ErrTransientBackend)
	for i := 0; i < 2; i++ {
		err := exec.Do(context.Background(), func(ctx context.Context) error {
			return transient
		})
		require.ErrorIs(t, err, core.ErrTransientBackend)
	}
	assert.Equal(t, CircuitOpen, breaker.State())
}

func TestExecutorFailsFastWhenCircuitOpen(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     time.Minute,
	})
	breaker.RecordFailure()
	require.Equal(t, CircuitOpen, breaker.State())

	exec := fastExecutor(breaker, nil)
	calls := 0
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, core.ErrCircuitOpen)
	assert.Equal(t, 0, calls, "open circuit must not dispatch the call")
}

func TestExecutorConsumesSlotPerAttempt(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 10,
		Window:            time.Minute,
		QueueTimeout:      10 * time.Millisecond,
	})
	exec := fastExecutor(nil, limiter)

	calls := 0
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: connection refused", core.ErrTransientBackend)
	})
	require.ErrorIs(t, err, core.ErrTransientBackend)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, limiter.InFlight(), "each retry consumes its own slot")
}

func TestExecutorQueueTimeoutDoesNotTripBreaker(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 1,
		Window:            time.Minute,
		QueueTimeout:      5 * time.Millisecond,
	})
	require.True(t, limiter.TryAcquire())

	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})
	exec := fastExecutor(breaker, limiter)

	err := exec.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	require.ErrorIs(t, err, core.ErrRateLimitQueueTimeout)
	assert.Equal(t, CircuitClosed, breaker.State())
}

func TestExecutorRetryQueueTimeoutDoesNotTripBreaker(t *testing.T) {
	// Admission succeeds for the first attempt, then the window is full for
	// the retry. Queuing pressure must not count against the backend.
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 1,
		Window:            time.Minute,
		QueueTimeout:      5 * time.Millisecond,
	})
	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})
	exec := fastExecutor(breaker, limiter)

	calls := 0
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: status code: 500", core.ErrTransientBackend)
	})
	require.ErrorIs(t, err, core.ErrRateLimitQueueTimeout)
	assert.Equal(t, 1, calls)
	assert.Equal(t, CircuitClosed, breaker.State())
}

func TestExecutorCancellationDoesNotTripBreaker(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1})
	exec := fastExecutor(breaker, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := exec.Do(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, CircuitClosed, breaker.State())
}

func TestExecutorCanceledTrialReleasesHalfOpenSlot(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     10 * time.Millisecond,
	})
	breaker.RecordFailure()
	require.Equal(t, CircuitOpen, breaker.State())
	exec := fastExecutor(breaker, nil)

	// The reset timeout elapses and the next call claims the half-open
	// trial slot, then gets canceled mid-flight.
	time.Sleep(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	err := exec.Do(ctx, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	require.ErrorIs(t, err, context.Canceled)

	// The slot must not stay claimed: after another reset timeout a call
	// against a healthy backend dispatches and closes the circuit.
	time.Sleep(20 * time.Millisecond)
	calls := 0
	err = exec.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, CircuitClosed, breaker.State())
}

func TestExecutorQueueTimeoutReleasesHalfOpenSlot(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		ResetTimeout:     10 * time.Millisecond,
	})
	breaker.RecordFailure()

	// One slot, already taken: the retry's re-admission times out after
	// the trial call has been claimed and failed transiently.
	limiter := NewRateLimiter(RateLimiterConfig{
		RequestsPerMinute: 2,
		Window:            time.Minute,
		QueueTimeout:      5 * time.Millisecond,
	})
	exec := fastExecutor(breaker, limiter)

	time.Sleep(20 * time.Millisecond)
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("%w: status code: 503", core.ErrTransientBackend)
	})
	require.ErrorIs(t, err, core.ErrRateLimitQueueTimeout)
	assert.Equal(t, CircuitOpen, breaker.State(), "abandoned trial reopens instead of wedging half-open")

	// A later caller can still claim a fresh trial.
	time.Sleep(20 * time.Millisecond)
	assert.True(t, breaker.Allow())
}

func TestExecutorNilPoliciesDisabled(t *testing.T) {
	exec := NewExecutor(nil, nil, nil)
	assert.Nil(t, exec.Breaker())
	assert.Nil(t, exec.Limiter())

	err := exec.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestExecutorAccessors(t *testing.T) {
	breaker := NewCircuitBreaker(DefaultCircuitBreakerConfig())
	limiter := NewRateLimiter(DefaultRateLimiterConfig())
	exec := NewExecutor(nil, breaker, limiter)
	assert.Same(t, breaker, exec.Breaker())
	assert.Same(t, limiter, exec.Limiter())
}
