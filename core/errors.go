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


package core

import "errors"

// Backend call errors
var (
	// ErrTransientBackend indicates a retryable backend failure
	// (timeout, 5xx, connection refused).
	ErrTransientBackend = errors.New("transient backend failure")

	// ErrCircuitOpen indicates the circuit breaker rejected the call
	// without a network attempt.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimitQueueTimeout indicates the caller waited too long for
	// rate-limit admission.
	ErrRateLimitQueueTimeout = errors.New("rate limit queue timeout")

	// ErrMalformedResponse indicates no known response shape matched.
	// Treated as transient and eligible for fallback.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// Fatal run errors
var (
	// ErrSchema indicates schema setup failed; the run aborts at startup.
	ErrSchema = errors.New("schema setup failed")

	// ErrInvalidInputPath indicates the input path failed validation;
	// the run aborts before any processing.
	ErrInvalidInputPath = errors.New("invalid input path")
)

// Non-fatal run outcomes
var (
	// ErrRecursionLimit indicates the hierarchy did not converge to a
	// single root within the level cap. The run still completes with a
	// best-effort result.
	ErrRecursionLimit = errors.New("recursion depth limit exceeded")
)

// Domain validation errors
var (
	// ErrInvalidNode indicates a HierarchyNode failed validation.
	ErrInvalidNode = errors.New("invalid hierarchy node")

	// ErrInvalidRunStatus indicates a RunStatus failed validation.
	ErrInvalidRunStatus = errors.New("invalid run status")

	// ErrEmptyBatchID indicates the BatchId field is empty.
	ErrEmptyBatchID = errors.New("batch id cannot be empty")

	// ErrNegativeLevel indicates a negative hierarchy level.
	ErrNegativeLevel = errors.New("level cannot be negative")

	// ErrInvalidDocumentType indicates an invalid DocumentType value.
	ErrInvalidDocumentType = errors.New("invalid document type")

	// ErrContentSummaryMismatch indicates a node whose content/summary
	// fields disagree with its document type.
	ErrContentSummaryMismatch = errors.New("content and summary fields do not match document type")

	// ErrLevelGap indicates a parent whose level is not exactly one above
	// its child.
	ErrLevelGap = errors.New("parent level must be child level plus one")
)
