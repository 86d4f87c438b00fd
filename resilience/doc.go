// Package resilience governs every outbound call to the summarization
// backend. It composes three independently configurable policies:
//
//   - RetryPolicy: exponential backoff with jitter on transient failures
//   - CircuitBreaker: fail fast while the backend is known to be down
//   - RateLimiter: bounded admission across all concurrent callers
//
// An Executor composes them in a fixed order: acquire a rate-limit slot,
// check the circuit state (fail fast if open), attempt the call under the
// retry policy, then record the outcome with the circuit breaker.
//
// The breaker and limiter hold process-wide shared mutable state and are
// safe under concurrent access from multiple in-flight batches. They are
// explicit objects constructed once per process (or per backend endpoint)
// and passed by reference into every call site, so tests can construct
// isolated instances and assert state transitions deterministically.
package resilience
