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
	"log/slog"

	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/resilience"
)

// Provider implements ai.Provider using OpenAI-compatible services.
// It manages the summarizer instance and its resilience wiring.
type Provider struct {
	config     *ai.Config
	summarizer *Summarizer
	logger     *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use. The executor carries
// the process-wide circuit breaker and rate limiter shared by all callers.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config, exec *resilience.Executor, enableFallback bool) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	model, err := newChatModel(config)
	if err != nil {
		return nil, err
	}

	summarizer, err := newSummarizer(config, model, exec, enableFallback)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:     config,
		summarizer: summarizer,
		logger:     slog.Default().With("component", "openai-provider"),
	}, nil
}

// Summarizer returns the batch summarization service.
func (p *Provider) Summarizer() ai.Summarizer {
	return p.summarizer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
