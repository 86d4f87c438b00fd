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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the summarization backend.
type Config struct {
	// Host is the base URL for the chat completion service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Model is the model identifier to use for summarization.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// SummaryPrompt is the instruction sent with each intermediate batch.
	SummaryPrompt string

	// FinalSummaryPrompt is the instruction sent for the final pass, when
	// the current level would collapse into a single root.
	FinalSummaryPrompt string

	// Temperature controls sampling randomness. Default: 0 (deterministic).
	Temperature float64

	// MaxTokens caps the backend's generated summary length.
	// Default: 1024. Zero means backend default.
	MaxTokens int

	// FallbackSentences is the number of leading sentences the extractive
	// fallback keeps when the backend is unusable. Default: 3
	FallbackSentences int

	// FallbackMaxChars caps the extractive fallback length. Default: 600
	FallbackMaxChars int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the summarization model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithSummaryPrompt sets the per-level summarization instruction.
func WithSummaryPrompt(prompt string) ConfigOption {
	return func(c *Config) {
		c.SummaryPrompt = prompt
	}
}

// WithFinalSummaryPrompt sets the final-pass summarization instruction.
func WithFinalSummaryPrompt(prompt string) ConfigOption {
	return func(c *Config) {
		c.FinalSummaryPrompt = prompt
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

// WithMaxTokens sets the generated summary length cap.
func WithMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		c.MaxTokens = maxTokens
	}
}

// WithFallback tunes the extractive fallback truncation.
func WithFallback(sentences, maxChars int) ConfigOption {
	return func(c *Config) {
		c.FallbackSentences = sentences
		c.FallbackMaxChars = maxChars
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:               "http://localhost:11434/v1",
		Model:              "qwen2.5:3b",
		SummaryPrompt:      DefaultSummaryPrompt,
		FinalSummaryPrompt: DefaultFinalSummaryPrompt,
		Temperature:        0.0,
		MaxTokens:          1024,
		FallbackSentences:  3,
		FallbackMaxChars:   600,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options. This is the recommended way to create a Config with
// custom settings.
//
// Example:
//   cfg := NewConfig(
//       WithHost("http://localhost:11434/v1"),
//       WithModel("gpt-4o-mini"),
//   )
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		// Remove trailing slash if present before adding /v1
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	// Normalize first to ensure the host is in correct format
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.SummaryPrompt == "" {
		return errors.New("ai config: SummaryPrompt is required")
	}
	if c.FinalSummaryPrompt == "" {
		return errors.New("ai config: FinalSummaryPrompt is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("ai config: Temperature must be between 0 and 2")
	}
	if c.FallbackSentences < 1 {
		return errors.New("ai config: FallbackSentences must be at least 1")
	}
	if c.FallbackMaxChars < 1 {
		return errors.New("ai config: FallbackMaxChars must be at least 1")
	}
	return nil
}
