package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/condensit/ai"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields.
// Safe for concurrent use, matching the ai.ChatModel contract.
type MockChatModel struct {
	// InvokeFunc is called by Invoke if set.
	// If nil, returns a deterministic single-choice response.
	InvokeFunc func(ctx context.Context, messages []ai.Message, opts ai.InvokeOptions) (ai.Response, error)

	callCount atomic.Int64
}

// NewMockChatModel creates a mock chat model with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Invoke returns a scripted response, or a deterministic default built
// from the last user message.
func (m *MockChatModel) Invoke(ctx context.Context, messages []ai.Message, opts ai.InvokeOptions) (ai.Response, error) {
	m.callCount.Add(1)

	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, messages, opts)
	}

	// Default: echo a short acknowledgment of the last user message
	content := "mock summary"
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			content = "mock summary of " + firstWords(messages[i].Content, 5)
			break
		}
	}
	return ai.ContentResponse{Text: content}, nil
}

// CallCount returns the number of times Invoke was called.
func (m *MockChatModel) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockChatModel) Reset() {
	m.callCount.Store(0)
	m.InvokeFunc = nil
}
