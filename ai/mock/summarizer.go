package mock

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/poiesic/condensit/ai"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, matching the ai.Summarizer contract: the
// hierarchy processor calls it from multiple workers at once.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, produces a deterministic abbreviation of the input.
	SummarizeFunc func(ctx context.Context, batchContent, prompt string) (ai.SummaryResult, error)

	callCount atomic.Int64
}

// NewMockSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns a scripted result, or a deterministic default: the
// first few words of the batch content prefixed with "summary:".
func (m *MockSummarizer) Summarize(ctx context.Context, batchContent, prompt string) (ai.SummaryResult, error) {
	m.callCount.Add(1)

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, batchContent, prompt)
	}

	return ai.SummaryResult{Text: "summary: " + firstWords(batchContent, 8)}, nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockSummarizer) Reset() {
	m.callCount.Store(0)
	m.SummarizeFunc = nil
}

// firstWords returns up to n leading words of text.
func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
