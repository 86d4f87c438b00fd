package ai

import "context"

// Message is one turn of a chat exchange sent to the backend.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// InvokeOptions holds per-call tuning for the backend.
type InvokeOptions struct {
	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the generated response length. Zero means backend default.
	MaxTokens int
}

// ChatModel is the boundary to the external language-model backend.
// Implementations must be thread-safe for concurrent use.
//
// The backend is treated as opaque: this subsystem defends only against
// its failure modes (timeout, error status, malformed or empty response)
// and its response-shape variability.
type ChatModel interface {
	// Invoke sends messages to the backend and returns its response in one
	// of the known shapes. Transient failures are reported as
	// core.ErrTransientBackend; responses that match no known shape as
	// core.ErrMalformedResponse.
	Invoke(ctx context.Context, messages []Message, opts InvokeOptions) (Response, error)
}

// Summarizer condenses one batch of content into a summary.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize produces a summary of batchContent following the given
	// prompt. When the backend is unusable and fallbacks are enabled, the
	// result is a deterministic extractive truncation with Degraded set.
	Summarize(ctx context.Context, batchContent, prompt string) (SummaryResult, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Summarizer returns the batch summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
