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


// Package ai provides abstractions for the summarization backend used in
// Condensit.
//
// This package defines interfaces for AI operations, chiefly batch
// summarization over an opaque chat-completion backend. It follows the
// dependency inversion principle, allowing the hierarchy processor and
// business logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - ChatModel: One call to the language-model backend
//   - Summarizer: Condenses a batch of content into a summary
//   - Provider: Aggregates AI services for convenient initialization
//
// Backend response-shape variability is handled by the Response closed
// union (ContentResponse, ChoiceListResponse, PlainTextResponse) and the
// ExtractText routine, which tries each known shape in a fixed priority
// order and fails only if none match.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewSummarizer) return
// INTERFACE types to enforce abstraction and prevent accidental coupling
// to concrete implementations.
//
//	provider, err := openai.NewProvider(config, exec, true)  // returns ai.Provider
//
// Test utility constructors (mock.NewMockChatModel, mock.NewMockSummarizer)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public methods (CallCount, function fields, Reset).
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config, resilience.NewExecutor(nil, nil, nil), true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Summarizer().Summarize(ctx, batchContent, config.SummaryPrompt)
//	if result.Degraded {
//	    // backend was unusable; result.Text is an extractive truncation
//	}
package ai
