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
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed allows requests through normally.
	CircuitClosed CircuitState = iota

	// CircuitOpen rejects all requests immediately, without a network call.
	CircuitOpen

	// CircuitHalfOpen allows a single trial call to test recovery.
	CircuitHalfOpen
)

// String returns the human-readable name for the circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker behavior.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is the duration to wait before transitioning from open
	// to half-open. Default: 60s
	ResetTimeout time.Duration
}

// DefaultCircuitBreakerConfig returns the standard defaults.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		ResetTimeout:     60 * time.Second,
	}
}

// CircuitBreaker stops calling a failing backend until it has had time to
// recover.
//
// The breaker has three states:
//   - Closed: normal operation, requests pass through
//   - Open: failure threshold exceeded, requests are rejected immediately
//   - Half-Open: a single trial call is allowed; its outcome decides
//     whether the circuit closes again or reopens
//
// State is shared across all concurrent callers within one process so that
// one failing backend does not let every caller independently retry past it.
//
// Thread Safety: safe for concurrent use.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	state               CircuitState
	consecutiveFailures int
	trialInFlight       bool
	lastFailureTime     time.Time
	lastStateChange     time.Time

	mu sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = DefaultCircuitBreakerConfig().FailureThreshold
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = DefaultCircuitBreakerConfig().ResetTimeout
	}
	return &CircuitBreaker{
		config:          config,
		state:           CircuitClosed,
		lastStateChange: time.Now(),
	}
}

// Allow checks if a request should be allowed through.
// In the open state, the reset timeout may transition the circuit to
// half-open, in which case this call claims the single trial slot.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()

	switch cb.state {
	case CircuitClosed:
		return true

	case CircuitOpen:
		if now.Sub(cb.lastFailureTime) >= cb.config.ResetTimeout {
			cb.transitionTo(CircuitHalfOpen, now)
			cb.trialInFlight = true
			return true
		}
		return false

	case CircuitHalfOpen:
		if !cb.trialInFlight {
			cb.trialInFlight = true
			return true
		}
		return false

	default:
		return false
	}
}

// RecordSuccess records a successful request.
// A successful trial call in half-open closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.consecutiveFailures = 0
	case CircuitHalfOpen:
		cb.transitionTo(CircuitClosed, time.Now())
	}
}

// RecordFailure records a failed request.
// Reaching the failure threshold in closed, or any failed trial in
// half-open, opens the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	cb.lastFailureTime = now

	switch cb.state {
	case CircuitClosed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.transitionTo(CircuitOpen, now)
		}
	case CircuitHalfOpen:
		cb.transitionTo(CircuitOpen, now)
	}
}

// AbandonTrial releases the half-open trial slot when the trial call
// ended without a recordable outcome (caller cancellation, rate-limit
// queue timeout). The circuit reopens and the reset clock restarts, so
// a later call can claim a fresh trial instead of the slot staying
// occupied forever. No-op outside the half-open state.
func (cb *CircuitBreaker) AbandonTrial() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitHalfOpen {
		return
	}
	now := time.Now()
	cb.lastFailureTime = now
	cb.transitionTo(CircuitOpen, now)
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Stats returns current circuit breaker statistics.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerStats{
		State:               cb.state,
		ConsecutiveFailures: cb.consecutiveFailures,
		LastFailureTime:     cb.lastFailureTime,
		LastStateChange:     cb.lastStateChange,
	}
}

// Reset resets the circuit breaker to the closed state.
// This is primarily for testing or manual intervention.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = CircuitClosed
	cb.consecutiveFailures = 0
	cb.trialInFlight = false
	cb.lastStateChange = time.Now()
}

// transitionTo changes the circuit state. Must be called with lock held.
func (cb *CircuitBreaker) transitionTo(newState CircuitState, now time.Time) {
	cb.state = newState
	cb.lastStateChange = now
	cb.trialInFlight = false

	if newState == CircuitClosed {
		cb.consecutiveFailures = 0
	}
}

// CircuitBreakerStats contains circuit breaker statistics.
type CircuitBreakerStats struct {
	State               CircuitState
	ConsecutiveFailures int
	LastFailureTime     time.Time
	LastStateChange     time.Time
}
