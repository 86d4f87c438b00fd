package resilience

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/condensit/core"
)

// Executor composes the three resilience policies around one backend call:
// acquire a rate-limit slot, check the circuit state (fail fast if open),
// attempt the call under the retry policy, then record the outcome with
// the circuit breaker.
//
// A nil breaker or limiter disables that policy; the retry policy is
// always present (DefaultRetryPolicy when nil is passed).
type Executor struct {
	retry   *RetryPolicy
	breaker *CircuitBreaker
	limiter *RateLimiter
	logger  *slog.Logger
}

// NewExecutor creates an executor over the given policies.
func NewExecutor(retry *RetryPolicy, breaker *CircuitBreaker, limiter *RateLimiter) *Executor {
	if retry == nil {
		retry = DefaultRetryPolicy()
	}
	return &Executor{
		retry:   retry,
		breaker: breaker,
		limiter: limiter,
		logger:  slog.Default().With("component", "resilience-executor"),
	}
}

// Breaker returns the executor's circuit breaker, nil when disabled.
func (e *Executor) Breaker() *CircuitBreaker {
	return e.breaker
}

// Limiter returns the executor's rate limiter, nil when disabled.
func (e *Executor) Limiter() *RateLimiter {
	return e.limiter
}

// Do runs call through the composed policies. Every dispatched attempt,
// including retries, consumes a rate-limit slot. Returns
// core.ErrCircuitOpen without a network attempt when the circuit is open,
// core.ErrRateLimitQueueTimeout when admission could not be obtained in
// time, or the final attempt's error when all retries are exhausted.
func (e *Executor) Do(ctx context.Context, call func(ctx context.Context) error) error {
	if err := e.admit(ctx); err != nil {
		return err
	}

	if e.breaker != nil && !e.breaker.Allow() {
		e.logger.Debug("circuit open, failing fast")
		return core.ErrCircuitOpen
	}

	err := e.retry.Execute(ctx, call, e.admit)

	if e.breaker != nil {
		switch {
		case err == nil:
			e.breaker.RecordSuccess()
		case errors.Is(err, context.Canceled):
			// Run cancellation says nothing about backend health, but a
			// half-open trial slot must not stay claimed.
			e.breaker.AbandonTrial()
		case errors.Is(err, core.ErrRateLimitQueueTimeout):
			// Local queuing pressure, not a backend failure.
			e.breaker.AbandonTrial()
		default:
			e.breaker.RecordFailure()
		}
	}

	return err
}

// admit waits for rate-limit admission when a limiter is configured.
func (e *Executor) admit(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}
