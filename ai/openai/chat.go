package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client llms.Model
	logger *slog.Logger
}

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat completion
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &ChatModel{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatModel creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Invoke sends messages to the backend and adapts its reply into the
// closed response union. Backend failures are classified so the resilience
// layer can tell transient failures from permanent ones.
func (m *ChatModel) Invoke(ctx context.Context, messages []ai.Message, opts ai.InvokeOptions) (ai.Response, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role, err := chatRole(msg.Role)
		if err != nil {
			return nil, err
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	response, err := m.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		m.logger.Debug("backend call failed", "err", err)
		return nil, classifyBackendError(err)
	}

	if response == nil || len(response.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", core.ErrMalformedResponse)
	}

	choices := make([]ai.Choice, 0, len(response.Choices))
	for _, choice := range response.Choices {
		choices = append(choices, ai.Choice{
			Message: ai.ChoiceMessage{Content: choice.Content},
		})
	}
	return ai.ChoiceListResponse{Choices: choices}, nil
}

// chatRole maps a message role to the langchaingo chat message type.
func chatRole(role string) (llms.ChatMessageType, error) {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem, nil
	case "user":
		return llms.ChatMessageTypeHuman, nil
	case "assistant":
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("unknown message role %q", role)
	}
}

// classifyBackendError wraps retryable backend failures (timeouts, server
// errors, refused connections) as core.ErrTransientBackend. Everything
// else, such as a malformed request, passes through unretried.
func classifyBackendError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", core.ErrTransientBackend, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", core.ErrTransientBackend, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "EOF"),
		strings.Contains(msg, "status code: 5"),
		strings.Contains(msg, "429"):
		return fmt.Errorf("%w: %w", core.ErrTransientBackend, err)
	}

	return err
}
