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


// Package openai provides summarization implementations using
// OpenAI-compatible APIs.
//
// This package implements the ai.Provider interface using the langchaingo
// library to communicate with OpenAI or OpenAI-compatible services (such
// as Ollama, LocalAI, or vLLM). Every backend call runs through a
// resilience.Executor; when the backend is unusable the summarizer
// degrades to a deterministic extractive truncation instead of failing
// the run.
//
// # Usage
//
//	config := ai.DefaultConfig()
//	// Or customize:
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("qwen2.5:3b"),
//	)
//
//	exec := resilience.NewExecutor(
//	    resilience.DefaultRetryPolicy(),
//	    resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
//	    resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig()),
//	)
//
//	provider, err := openai.NewProvider(config, exec, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.Summarizer().Summarize(ctx, batchContent, config.SummaryPrompt)
package openai
