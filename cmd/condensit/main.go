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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/condensit"
	"github.com/poiesic/condensit/ai"
	"github.com/poiesic/condensit/hierarchy"
	"github.com/poiesic/condensit/resilience"
)

func main() {
	app := &cli.App{
		Name:  "condensit",
		Usage: "Hierarchical document summarization over a local language model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "summarize",
				Usage:  "Summarize a directory of documents into a hierarchy",
				Action: summarizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Directory of documents to summarize",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "host",
						Usage: "Summarization service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "model",
						Usage: "Summarization model name",
						Value: "qwen2.5:3b",
					},
					&cli.StringFlag{
						Name:  "summary-prompt",
						Usage: "Instruction for intermediate summarization passes",
					},
					&cli.StringFlag{
						Name:  "final-summary-prompt",
						Usage: "Instruction for the final root summary pass",
					},
					&cli.Float64Flag{
						Name:  "temperature",
						Usage: "Sampling temperature for the backend",
						Value: 0,
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Maximum tokens per generated summary",
						Value: 1024,
					},
					&cli.IntFlag{
						Name:  "token-budget",
						Usage: "Token budget per summarization batch",
						Value: 512,
					},
					&cli.IntFlag{
						Name:  "max-levels",
						Usage: "Maximum hierarchy depth before giving up on convergence",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent summarization workers (0 uses CPU-based default)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts per backend call",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "failure-threshold",
						Usage: "Consecutive failures before the circuit opens",
						Value: 5,
					},
					&cli.DurationFlag{
						Name:  "reset-timeout",
						Usage: "Time an open circuit waits before a trial call",
						Value: 60 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "no-circuit-breaker",
						Usage: "Disable the circuit breaker entirely",
					},
					&cli.IntFlag{
						Name:  "requests-per-minute",
						Usage: "Rate limit for backend calls (0 disables)",
						Value: 30,
					},
					&cli.DurationFlag{
						Name:  "queue-timeout",
						Usage: "How long a call may wait for a rate-limit slot",
						Value: 30 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "no-fallback",
						Usage: "Fail runs instead of degrading to extractive summaries",
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show the status and final summary of a batch",
				Action: statusCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "batch",
						Aliases:  []string{"b"},
						Usage:    "Batch ID to inspect",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "tree",
						Usage: "Print the full node hierarchy",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildAIConfig maps the summarize command's backend flags onto an
// ai.Config, validating the result.
func buildAIConfig(c *cli.Context) (*ai.Config, error) {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("host")),
		ai.WithModel(c.String("model")),
		ai.WithTemperature(c.Float64("temperature")),
		ai.WithMaxTokens(c.Int("max-tokens")),
	}
	if prompt := c.String("summary-prompt"); prompt != "" {
		opts = append(opts, ai.WithSummaryPrompt(prompt))
	}
	if prompt := c.String("final-summary-prompt"); prompt != "" {
		opts = append(opts, ai.WithFinalSummaryPrompt(prompt))
	}

	aiConfig := ai.NewConfig(opts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return aiConfig, nil
}

// buildExecutor maps the summarize command's resilience flags onto an
// executor. requests-per-minute 0 disables the rate limiter and
// no-circuit-breaker disables the breaker.
func buildExecutor(c *cli.Context) *resilience.Executor {
	retry := resilience.DefaultRetryPolicy()
	retry.MaxRetries = c.Int("max-retries")
	retry.BaseDelay = c.Duration("retry-delay")

	var breaker *resilience.CircuitBreaker
	if !c.Bool("no-circuit-breaker") {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: c.Int("failure-threshold"),
			ResetTimeout:     c.Duration("reset-timeout"),
		})
	}

	var limiter *resilience.RateLimiter
	if rpm := c.Int("requests-per-minute"); rpm > 0 {
		limiter = resilience.NewRateLimiter(resilience.RateLimiterConfig{
			RequestsPerMinute: rpm,
			QueueTimeout:      c.Duration("queue-timeout"),
		})
	}

	return resilience.NewExecutor(retry, breaker, limiter)
}

func summarizeCommand(c *cli.Context) error {
	ctx := context.Background()

	aiConfig, err := buildAIConfig(c)
	if err != nil {
		return err
	}

	if c.Int("max-retries") < 0 {
		return fmt.Errorf("max-retries must not be negative")
	}
	if c.Int("token-budget") <= 0 {
		return fmt.Errorf("token-budget must be greater than 0")
	}

	exec := buildExecutor(c)

	db, err := condensit.NewDatabase(c.String("db"),
		condensit.WithAIConfig(aiConfig),
		condensit.WithExecutor(exec),
		condensit.WithFallback(!c.Bool("no-fallback")),
		condensit.WithProcessorConfig(&hierarchy.Config{
			TokenBudget:        c.Int("token-budget"),
			MaxLevels:          c.Int("max-levels"),
			SummaryPrompt:      aiConfig.SummaryPrompt,
			FinalSummaryPrompt: aiConfig.FinalSummaryPrompt,
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Input: %s\n", c.String("input"))
	fmt.Fprintf(os.Stderr, "Model: %s @ %s\n", c.String("model"), c.String("host"))

	var opts []hierarchy.Option
	opts = append(opts, hierarchy.WithProgress(hierarchy.NewProgressTracker(os.Stderr)))
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, hierarchy.WithPoolSize(size))
	}

	result, err := db.SummarizeDirectory(ctx, c.String("input"), opts...)
	if err != nil {
		return fmt.Errorf("summarization failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\nBatch: %s\n", result.BatchId)
	fmt.Fprintf(os.Stderr, "Documents processed: %d\n", result.TotalDocumentsProcessed)
	fmt.Fprintf(os.Stderr, "Hierarchy depth: %d\n", result.HierarchyDepth)
	if !result.Converged {
		fmt.Fprintf(os.Stderr, "Warning: run hit the depth cap before converging\n")
		return nil
	}

	fmt.Println(result.FinalSummary)
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := condensit.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	batchID := c.String("batch")
	status, err := db.GetRunStatus(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to read run status: %w", err)
	}

	fmt.Printf("Batch: %s\n", status.BatchId)
	fmt.Printf("State: %s\n", status.State)
	fmt.Printf("Level: %d\n", status.CurrentLevel)
	fmt.Printf("Documents: %d/%d\n", status.ProcessedDocuments, status.TotalDocuments)
	fmt.Printf("Started: %s\n", status.StartedAt.Format(time.RFC3339))
	if !status.CompletedAt.IsZero() {
		fmt.Printf("Completed: %s\n", status.CompletedAt.Format(time.RFC3339))
	}
	if status.ErrorMessage != "" {
		fmt.Printf("Error: %s\n", status.ErrorMessage)
	}

	if !c.Bool("tree") {
		return nil
	}

	nodes, err := db.GetNodesByBatch(ctx, batchID)
	if err != nil {
		return fmt.Errorf("failed to read batch nodes: %w", err)
	}
	fmt.Println()
	for _, node := range nodes {
		text := node.Text()
		if len(text) > 80 {
			text = text[:80] + "..."
		}
		fmt.Printf("L%d %-7s #%d %s\n", node.Level, node.Type, node.Id, strings.ReplaceAll(text, "\n", " "))
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
