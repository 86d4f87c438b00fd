package main

import (
	"flag"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/condensit/ai"
)

func TestSetupLogger(t *testing.T) {
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	newCtx := func(level string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("log-level", level, "")
		return cli.NewContext(cli.NewApp(), set, nil)
	}

	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		assert.NoError(t, setupLogger(newCtx(level)), "level %s should be accepted", level)
	}

	err := setupLogger(newCtx("verbose"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func newAIConfigCtx(summaryPrompt, finalPrompt string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("host", "http://localhost:11434/v1", "")
	set.String("model", "qwen2.5:3b", "")
	set.Float64("temperature", 0, "")
	set.Int("max-tokens", 1024, "")
	set.String("summary-prompt", summaryPrompt, "")
	set.String("final-summary-prompt", finalPrompt, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestBuildAIConfigDefaultPrompts(t *testing.T) {
	cfg, err := buildAIConfig(newAIConfigCtx("", ""))
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultSummaryPrompt, cfg.SummaryPrompt)
	assert.Equal(t, ai.DefaultFinalSummaryPrompt, cfg.FinalSummaryPrompt)
}

func TestBuildAIConfigCustomPrompts(t *testing.T) {
	cfg, err := buildAIConfig(newAIConfigCtx("condense this batch", "condense everything"))
	require.NoError(t, err)
	assert.Equal(t, "condense this batch", cfg.SummaryPrompt)
	assert.Equal(t, "condense everything", cfg.FinalSummaryPrompt)
}

func newExecutorCtx(noBreaker bool, rpm int) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Int("max-retries", 3, "")
	set.Duration("retry-delay", time.Second, "")
	set.Int("failure-threshold", 5, "")
	set.Duration("reset-timeout", time.Minute, "")
	set.Bool("no-circuit-breaker", noBreaker, "")
	set.Int("requests-per-minute", rpm, "")
	set.Duration("queue-timeout", 30*time.Second, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestBuildExecutorDefaults(t *testing.T) {
	exec := buildExecutor(newExecutorCtx(false, 30))
	assert.NotNil(t, exec.Breaker())
	assert.NotNil(t, exec.Limiter())
}

func TestBuildExecutorDisabledPolicies(t *testing.T) {
	exec := buildExecutor(newExecutorCtx(true, 0))
	assert.Nil(t, exec.Breaker(), "no-circuit-breaker disables the breaker")
	assert.Nil(t, exec.Limiter(), "requests-per-minute 0 disables the limiter")
}

func TestSummarizeCommandRequiredFlags(t *testing.T) {
	app := &cli.App{
		Name: "condensit",
		Commands: []*cli.Command{
			{
				Name:   "summarize",
				Action: summarizeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Required: true},
					&cli.StringFlag{Name: "input", Required: true},
				},
			},
		},
	}

	err := app.Run([]string{"condensit", "summarize", "--db", "/tmp/test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}
