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


package condensit

import (
	"context"
	"log/slog"

	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/ai/openai"
	"github.com/poiesic/condensit/chunker"
	"github.com/poiesic/condensit/core"
	"github.com/poiesic/condensit/hierarchy"
	"github.com/poiesic/condensit/ingestion"
	"github.com/poiesic/condensit/resilience"
	"github.com/poiesic/condensit/storage"
	"github.com/poiesic/condensit/storage/badger"
)

// Database bundles the storage backend, the summarization provider, and
// the shared resilience policies behind one handle. The backend is
// acquired once here and every repository and run borrows it; callers
// never open the store twice.
type Database struct {
	backend    *badger.Backend
	nodeRepo   storage.NodeRepository
	statusRepo storage.RunStatusRepository
	provider   ai.Provider
	executor   *resilience.Executor
	procConfig *hierarchy.Config
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig       *ai.Config
	executor       *resilience.Executor
	procConfig     *hierarchy.Config
	provider       ai.Provider
	enableFallback bool
	inMemory       bool
}

// WithAIConfig sets the summarization backend configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithExecutor replaces the default resilience policies. The executor is
// shared by every summarization run on this database, so its circuit
// breaker and rate limiter see all backend traffic.
func WithExecutor(exec *resilience.Executor) DatabaseOption {
	return func(o *databaseOptions) {
		if exec != nil {
			o.executor = exec
		}
	}
}

// WithProcessorConfig sets the hierarchy run configuration.
func WithProcessorConfig(config *hierarchy.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.procConfig = config
		}
	}
}

// WithFallback controls degradation to extractive summaries when the
// backend is unusable. Enabled by default.
func WithFallback(enabled bool) DatabaseOption {
	return func(o *databaseOptions) {
		o.enableFallback = enabled
	}
}

// WithProvider replaces the OpenAI-compatible provider entirely, e.g.
// with the ai/mock provider in tests.
func WithProvider(provider ai.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithInMemory opens an ephemeral database. Used in tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens (or creates) a condensit database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig:       ai.DefaultConfig(),
		procConfig:     hierarchy.DefaultConfig(),
		enableFallback: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.executor == nil {
		options.executor = resilience.NewExecutor(
			resilience.DefaultRetryPolicy(),
			resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
			resilience.NewRateLimiter(resilience.DefaultRateLimiterConfig()),
		)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	nodeRepo, err := badger.NewNodeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	statusRepo := badger.NewRunStatusRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig, options.executor, options.enableFallback)
		if err != nil {
			nodeRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:    backend,
		nodeRepo:   nodeRepo,
		statusRepo: statusRepo,
		provider:   provider,
		executor:   options.executor,
		procConfig: options.procConfig,
		logger:     slog.Default(),
	}, nil
}

// Close releases all resources in reverse acquisition order.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.statusRepo.Close(); err != nil {
		db.logger.Error("error closing run status repository", "err", err)
		return err
	}
	if err := db.nodeRepo.Close(); err != nil {
		db.logger.Error("error closing node repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// NodeRepository exposes the hierarchy node store.
func (db *Database) NodeRepository() storage.NodeRepository {
	return db.nodeRepo
}

// RunStatusRepository exposes the run status store.
func (db *Database) RunStatusRepository() storage.RunStatusRepository {
	return db.statusRepo
}

// Executor exposes the shared resilience policies, e.g. for inspecting
// circuit breaker state after a run.
func (db *Database) Executor() *resilience.Executor {
	return db.executor
}

// SummarizeDocuments persists docs as a new batch and condenses them into
// a hierarchical summary. The whole batch is processed under one run;
// progress is observable through GetRunStatus while it executes.
func (db *Database) SummarizeDocuments(ctx context.Context, docs []core.SourceDocument, opts ...hierarchy.Option) (*hierarchy.RunResult, error) {
	batchID := core.NewBatchID()

	sources := chunker.SourceNodes(batchID, docs)
	if len(sources) == 0 {
		return nil, ingestion.ErrNoDocuments
	}
	if _, err := db.nodeRepo.CreateNodes(ctx, sources...); err != nil {
		return nil, err
	}

	levelOne := chunker.Chunk(batchID, sources, db.procConfig.TokenBudget)
	if _, err := db.nodeRepo.CreateNodes(ctx, levelOne...); err != nil {
		return nil, err
	}

	db.logger.Info("starting summarization run",
		"batchId", batchID, "documents", len(sources), "batches", len(levelOne))

	opts = append([]hierarchy.Option{hierarchy.WithConfig(db.procConfig)}, opts...)
	proc, err := hierarchy.NewProcessor(db.nodeRepo, db.statusRepo, db.provider.Summarizer(), opts...)
	if err != nil {
		return nil, err
	}
	defer proc.Release()

	return proc.Run(ctx, batchID)
}

// SummarizeDirectory loads every document under inputPath and summarizes
// them as one batch.
func (db *Database) SummarizeDirectory(ctx context.Context, inputPath string, opts ...hierarchy.Option) (*hierarchy.RunResult, error) {
	docs, err := ingestion.NewLoader().LoadDirectory(inputPath)
	if err != nil {
		return nil, err
	}
	return db.SummarizeDocuments(ctx, docs, opts...)
}

// GetRunStatus returns the status record for a batch.
func (db *Database) GetRunStatus(ctx context.Context, batchID string) (*core.RunStatus, error) {
	return db.statusRepo.GetRunStatus(ctx, batchID)
}

// GetNodesByBatch returns every node of a batch, ordered by level then
// insertion order.
func (db *Database) GetNodesByBatch(ctx context.Context, batchID string) ([]*core.HierarchyNode, error) {
	return db.nodeRepo.GetNodesByBatch(ctx, batchID)
}
