package resilience

import (
	"context"
	"errors"

	"github.com/poiesic/condensit/core"
)

var (
	// ErrInvalidMaxRetries is returned when MaxRetries is negative.
	ErrInvalidMaxRetries = errors.New("maxRetries cannot be negative")
)

// IsTransient reports whether an error is a retryable backend failure.
// Timeouts, 5xx-style backend failures, and malformed responses are
// transient; everything else (malformed requests, cancellation) is not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, core.ErrTransientBackend) ||
		errors.Is(err, core.ErrMalformedResponse) ||
		errors.Is(err, context.DeadlineExceeded)
}
