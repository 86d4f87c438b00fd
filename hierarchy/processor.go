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


package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/chunker"
	"github.com/poiesic/condensit/core"
	"github.com/poiesic/condensit/storage"
)

// Config holds tuning parameters for a summarization run.
type Config struct {
	// TokenBudget is the maximum combined token count per summarization batch.
	TokenBudget int

	// MaxLevels caps the hierarchy depth. A run that has not converged to a
	// single node by this level stops and reports Converged=false.
	MaxLevels int

	// SummaryPrompt is the system prompt for intermediate levels.
	SummaryPrompt string

	// FinalSummaryPrompt is the system prompt used when one batch remains.
	FinalSummaryPrompt string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TokenBudget:        chunker.DefaultTokenBudget,
		MaxLevels:          20,
		SummaryPrompt:      ai.DefaultSummaryPrompt,
		FinalSummaryPrompt: ai.DefaultFinalSummaryPrompt,
	}
}

// RunResult reports the outcome of a completed summarization run.
type RunResult struct {
	BatchId                 string
	FinalSummary            string
	TotalDocumentsProcessed int
	HierarchyDepth          int
	Converged               bool
}

// Processor drives the level-by-level condensation of a batch. Each level's
// batches are summarized concurrently on a worker pool; the resulting
// summary nodes become the input of the next level until a single node
// remains or the depth cap is hit.
type Processor struct {
	nodes      storage.NodeRepository
	status     storage.RunStatusRepository
	summarizer ai.Summarizer
	pool       *ants.Pool
	config     *Config
	tracker    *ProgressTracker
	logger     *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor) error

// WithPoolSize sets the worker pool size for concurrent batch summarization.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Processor) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithConfig replaces the run configuration. Zero fields fall back to
// their defaults.
func WithConfig(config *Config) Option {
	return func(p *Processor) error {
		if config == nil {
			return nil
		}
		defaults := DefaultConfig()
		if config.TokenBudget <= 0 {
			config.TokenBudget = defaults.TokenBudget
		}
		if config.MaxLevels <= 0 {
			config.MaxLevels = defaults.MaxLevels
		}
		if config.SummaryPrompt == "" {
			config.SummaryPrompt = defaults.SummaryPrompt
		}
		if config.FinalSummaryPrompt == "" {
			config.FinalSummaryPrompt = defaults.FinalSummaryPrompt
		}
		p.config = config
		return nil
	}
}

// WithProgress attaches a progress tracker to the run.
func WithProgress(tracker *ProgressTracker) Option {
	return func(p *Processor) error {
		p.tracker = tracker
		return nil
	}
}

// NewProcessor creates a new hierarchy processor.
func NewProcessor(
	nodes storage.NodeRepository,
	status storage.RunStatusRepository,
	summarizer ai.Summarizer,
	opts ...Option,
) (*Processor, error) {
	if nodes == nil {
		return nil, ErrNodeRepositoryRequired
	}
	if status == nil {
		return nil, ErrStatusRepositoryRequired
	}
	if summarizer == nil {
		return nil, ErrSummarizerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		nodes:      nodes,
		status:     status,
		summarizer: summarizer,
		pool:       pool,
		config:     DefaultConfig(),
		logger:     slog.Default().With("component", "hierarchy"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The processor should not be used after calling Release.
func (p *Processor) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Run condenses the batch identified by batchID, starting from its level-1
// nodes, until a single summary remains or the depth cap is reached.
//
// The run status record mirrors progress throughout: it is created in the
// processing state, updated after every level, and finalized as completed
// or failed. Failure of any batch fails the whole run.
func (p *Processor) Run(ctx context.Context, batchID string) (*RunResult, error) {
	if batchID == "" {
		return nil, core.ErrEmptyBatchID
	}

	current, err := p.nodes.GetNodesAtLevel(ctx, batchID, 1)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return nil, fmt.Errorf("%w: batch %s", ErrNoDocuments, batchID)
	}

	runStatus := &core.RunStatus{
		BatchId:        batchID,
		CurrentLevel:   1,
		TotalDocuments: len(current),
		State:          core.RunStateProcessing,
		StartedAt:      time.Now().UTC(),
	}
	if err := p.status.CreateRunStatus(ctx, runStatus); err != nil {
		if !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, err
		}
		// Re-running a batch resets its previous status.
		if err := p.status.UpdateRunStatus(ctx, runStatus); err != nil {
			return nil, err
		}
	}

	if p.tracker != nil {
		p.tracker.Start()
	}

	result, err := p.run(ctx, batchID, current, runStatus)
	if err != nil {
		runStatus.State = core.RunStateFailed
		runStatus.ErrorMessage = err.Error()
		runStatus.CompletedAt = time.Now().UTC()
		if statusErr := p.status.UpdateRunStatus(ctx, runStatus); statusErr != nil {
			p.logger.Error("failed to record run failure", "batchId", batchID, "err", statusErr)
		}
		return nil, err
	}

	runStatus.State = core.RunStateCompleted
	runStatus.CompletedAt = time.Now().UTC()
	if err := p.status.UpdateRunStatus(ctx, runStatus); err != nil {
		return nil, err
	}

	if p.tracker != nil {
		p.tracker.Finish()
	}

	p.logger.Info("run complete",
		"batchId", batchID,
		"depth", result.HierarchyDepth,
		"documents", result.TotalDocumentsProcessed,
		"converged", result.Converged)
	return result, nil
}

func (p *Processor) run(ctx context.Context, batchID string, current []*core.HierarchyNode, runStatus *core.RunStatus) (*RunResult, error) {
	level := 1
	processed := 0
	converged := false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if level >= p.config.MaxLevels {
			p.logger.Warn("depth cap reached before convergence",
				"batchId", batchID, "maxLevels", p.config.MaxLevels, "remaining", len(current))
			// Non-fatal: the partial hierarchy stays useful, the status
			// records why the run stopped.
			runStatus.ErrorMessage = core.ErrRecursionLimit.Error()
			break
		}

		groups := GroupByBudget(current, p.config.TokenBudget)
		prompt := p.config.SummaryPrompt
		if len(groups) == 1 {
			prompt = p.config.FinalSummaryPrompt
		}

		if p.tracker != nil {
			p.tracker.Level(level, len(groups))
		}
		p.logger.Debug("summarizing level", "batchId", batchID, "level", level, "batches", len(groups))

		next, err := p.summarizeLevel(ctx, batchID, level, groups, prompt)
		if err != nil {
			return nil, err
		}

		processed += len(current)
		level++
		current = next

		// ProcessedDocuments tracks the level-1 inputs, all of which are
		// incorporated once the first level completes; CurrentLevel carries
		// depth progress from there.
		runStatus.CurrentLevel = level
		runStatus.ProcessedDocuments = runStatus.TotalDocuments
		if err := p.status.UpdateRunStatus(ctx, runStatus); err != nil {
			return nil, err
		}

		if len(current) == 1 {
			converged = true
			break
		}
	}

	result := &RunResult{
		BatchId:                 batchID,
		TotalDocumentsProcessed: processed,
		HierarchyDepth:          level,
		Converged:               converged,
	}
	if converged {
		result.FinalSummary = current[0].Summary
	}
	return result, nil
}

// summarizeLevel summarizes every group concurrently and persists the
// resulting summary nodes at level+1, linking children to their parents.
func (p *Processor) summarizeLevel(ctx context.Context, batchID string, level int, groups [][]*core.HierarchyNode, prompt string) ([]*core.HierarchyNode, error) {
	results := make([]ai.SummaryResult, len(groups))
	errs := make([]error, len(groups))

	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		content := joinGroup(group)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = p.summarizer.Summarize(ctx, content, prompt)
			if p.tracker != nil {
				p.tracker.Increment(1)
			}
		})
		if submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("level %d summarization failed: %w", level, err)
		}
	}

	parents := make([]*core.HierarchyNode, len(groups))
	for i, group := range groups {
		parents[i] = summaryNode(batchID, level+1, group, results[i])
	}

	if _, err := p.nodes.CreateNodes(ctx, parents...); err != nil {
		return nil, err
	}

	// Backlink children to their new parents.
	var children []*core.HierarchyNode
	for i, group := range groups {
		for _, child := range group {
			child.ParentId = parents[i].Id
			children = append(children, child)
		}
	}
	if _, err := p.nodes.UpdateNodes(ctx, children...); err != nil {
		return nil, err
	}

	return parents, nil
}

// summaryNode builds the parent node for one summarized group.
func summaryNode(batchID string, level int, group []*core.HierarchyNode, result ai.SummaryResult) *core.HierarchyNode {
	childIDs := make([]core.ID, len(group))
	sourceSeen := make(map[core.ID]bool)
	var sourceIDs []core.ID
	for i, child := range group {
		childIDs[i] = child.Id
		for _, src := range child.SourceDocumentIds {
			if !sourceSeen[src] {
				sourceSeen[src] = true
				sourceIDs = append(sourceIDs, src)
			}
		}
	}

	metadata := map[string]string{}
	if result.Degraded {
		metadata[core.MetadataKeyDegraded] = "true"
	}

	return &core.HierarchyNode{
		BatchId:           batchID,
		Level:             level,
		Type:              core.DocumentTypeSummary,
		Summary:           result.Text,
		TokenCount:        chunker.EstimateTokens(result.Text),
		ChildIds:          childIDs,
		SourceDocumentIds: sourceIDs,
		Metadata:          metadata,
	}
}

// joinGroup concatenates the text of a group's nodes for summarization.
func joinGroup(group []*core.HierarchyNode) string {
	parts := make([]string, len(group))
	for i, node := range group {
		parts[i] = node.Text()
	}
	return strings.Join(parts, "\n\n")
}
