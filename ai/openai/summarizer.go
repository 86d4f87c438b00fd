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


package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/resilience"
)

// Summarizer implements ai.Summarizer over a ChatModel, routing every call
// through the resilience executor and degrading to an extractive fallback
// when the backend is unusable.
type Summarizer struct {
	model          ai.ChatModel
	exec           *resilience.Executor
	config         *ai.Config
	enableFallback bool
	logger         *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config, model ai.ChatModel, exec *resilience.Executor, enableFallback bool) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if exec == nil {
		exec = resilience.NewExecutor(nil, nil, nil)
	}

	return &Summarizer{
		model:          model,
		exec:           exec,
		config:         config,
		enableFallback: enableFallback,
		logger:         slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a summarizer with its own backend client.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config, exec *resilience.Executor, enableFallback bool) (ai.Summarizer, error) {
	model, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newSummarizer(config, model, exec, enableFallback)
}

// NewSummarizerWithModel creates a summarizer over an existing chat model.
// Useful for tests that script the backend.
func NewSummarizerWithModel(config *ai.Config, model ai.ChatModel, exec *resilience.Executor, enableFallback bool) (ai.Summarizer, error) {
	return newSummarizer(config, model, exec, enableFallback)
}

// Summarize condenses batchContent into one summary following prompt.
//
// Transient failures are absorbed: when all retries are exhausted or the
// circuit is open and fallbacks are enabled, the result is a deterministic
// extractive truncation of the input with Degraded set, never an error.
// With fallbacks disabled the final backend error is returned instead.
func (s *Summarizer) Summarize(ctx context.Context, batchContent, prompt string) (ai.SummaryResult, error) {
	messages := []ai.Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: batchContent},
	}
	opts := ai.InvokeOptions{
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	}

	var text string
	err := s.exec.Do(ctx, func(ctx context.Context) error {
		response, err := s.model.Invoke(ctx, messages, opts)
		if err != nil {
			return err
		}
		extracted, err := ai.ExtractText(response)
		if err != nil {
			return err
		}
		text = extracted
		return nil
	})

	if err == nil {
		return ai.SummaryResult{Text: text}, nil
	}

	// Run cancellation propagates; it is not a backend failure.
	if errors.Is(err, context.Canceled) {
		return ai.SummaryResult{}, err
	}

	if !s.enableFallback {
		return ai.SummaryResult{}, err
	}

	s.logger.Warn("summarization degraded to extractive fallback", "err", err)
	fallback := ExtractiveFallback(batchContent, s.config.FallbackSentences, s.config.FallbackMaxChars)
	return ai.SummaryResult{Text: fallback, Degraded: true}, nil
}
