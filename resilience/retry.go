// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryPolicy retries transient backend failures with exponential backoff.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Default: 3
	MaxRetries int

	// RequestTimeout is the timeout applied to each individual attempt.
	// A timed-out attempt counts as a transient failure. Default: 60s
	RequestTimeout time.Duration

	// BaseDelay is the delay before the first retry. Default: 1s
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay. Default: 32s
	MaxDelay time.Duration

	// JitterFactor randomizes each delay by this fraction. Default: 0.1
	JitterFactor float64
}

// DefaultRetryPolicy returns a RetryPolicy with the standard defaults.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:     3,
		RequestTimeout: 60 * time.Second,
		BaseDelay:      1 * time.Second,
		MaxDelay:       32 * time.Second,
		JitterFactor:   0.1,
	}
}

// Delay returns the backoff delay before retry number attempt (1-based):
// min(MaxDelay, BaseDelay * 2^(attempt-1)) randomized by ±JitterFactor.
func (p *RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.JitterFactor > 0 {
		jitter := (rand.Float64()*2 - 1) * p.JitterFactor
		delay = time.Duration(float64(delay) * (1 + jitter))
	}
	return delay
}

// Execute runs op, retrying transient failures up to MaxRetries times with
// exponential backoff. Each attempt runs under RequestTimeout; an attempt
// that times out is treated as a transient failure. Non-transient failures
// are returned immediately without further attempts.
//
// admit, if non-nil, is called before every retry attempt (not the first);
// the Executor uses it to re-acquire a rate-limit slot per dispatched call.
// Returns the error from the last attempt if all attempts fail.
func (p *RetryPolicy) Execute(ctx context.Context, op func(ctx context.Context) error, admit func(ctx context.Context) error) error {
	if p.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	var lastErr error
	attempts := p.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if attempt > 1 && admit != nil {
			if err := admit(ctx); err != nil {
				return err
			}
		}

		lastErr = p.attempt(ctx, op)
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("backend call succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !IsTransient(lastErr) {
			slog.Debug("backend call failed with non-transient error", "err", lastErr)
			return lastErr
		}

		slog.Debug("backend call failed, will retry",
			"attempt", attempt, "maxAttempts", attempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == attempts {
			break
		}

		// Sleep with context awareness
		timer := time.NewTimer(p.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Continue to next attempt
		}
	}

	return lastErr
}

// attempt runs op once under the per-attempt timeout, mapping the timeout
// to a transient error so it stays eligible for retry.
func (p *RetryPolicy) attempt(ctx context.Context, op func(ctx context.Context) error) error {
	attemptCtx := ctx
	cancel := func() {}
	if p.RequestTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, p.RequestTimeout)
	}
	defer cancel()

	err := op(attemptCtx)
	if err != nil && attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return fmt.Errorf("attempt timed out after %v: %w", p.RequestTimeout, err)
	}
	return err
}
