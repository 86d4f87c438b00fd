// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatModel, ai.Summarizer,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	result, err := mockProvider.Summarizer().Summarize(ctx, "batch text", "prompt")
//
//	// Custom behavior injection
//	model := mock.NewMockChatModel()
//	model.InvokeFunc = func(ctx context.Context, messages []ai.Message, opts ai.InvokeOptions) (ai.Response, error) {
//	    return nil, core.ErrTransientBackend
//	}
//
//	// Check call counts
//	count := model.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockChatModel: Returns a deterministic response echoing the user message
//   - MockSummarizer: Returns a deterministic abbreviation of the batch content
//   - MockProvider: Aggregates a mock summarizer
package mock
