package condensit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/condensit/ai/mock"
	"github.com/poiesic/condensit/core"
	"github.com/poiesic/condensit/hierarchy"
	"github.com/poiesic/condensit/ingestion"
	"github.com/poiesic/condensit/storage"
)

func newTestDatabase(t *testing.T, opts ...DatabaseOption) *Database {
	t.Helper()
	opts = append([]DatabaseOption{
		WithInMemory(),
		WithProvider(mock.NewMockProvider()),
	}, opts...)
	db, err := NewDatabase("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSummarizeDocuments(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	docs := []core.SourceDocument{
		{Name: "a.txt", Content: "The first document talks about winter weather patterns."},
		{Name: "b.txt", Content: "The second document describes summer droughts in detail."},
		{Name: "c.txt", Content: "The third document covers autumn harvest yields."},
	}

	result, err := db.SummarizeDocuments(ctx, docs)
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.NotEmpty(t, result.FinalSummary)
	assert.NotEmpty(t, result.BatchId)

	status, err := db.GetRunStatus(ctx, result.BatchId)
	require.NoError(t, err)
	assert.Equal(t, core.RunStateCompleted, status.State)

	nodes, err := db.GetNodesByBatch(ctx, result.BatchId)
	require.NoError(t, err)

	var levels []int
	byType := map[core.DocumentType]int{}
	for _, node := range nodes {
		levels = append(levels, node.Level)
		byType[node.Type]++
	}
	assert.Equal(t, 3, byType[core.DocumentTypeSource])
	assert.GreaterOrEqual(t, byType[core.DocumentTypeSummary], 1)
	assert.IsNonDecreasing(t, levels)
}

func TestSummarizeDocumentsEmpty(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.SummarizeDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, ingestion.ErrNoDocuments)

	_, err = db.SummarizeDocuments(context.Background(), []core.SourceDocument{
		{Name: "blank.txt", Content: "   "},
	})
	assert.ErrorIs(t, err, ingestion.ErrNoDocuments)
}

func TestSummarizeDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"one.txt": "Alpha document about topology.",
		"two.txt": "Beta document about geometry.",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	db := newTestDatabase(t)

	result, err := db.SummarizeDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.NotEmpty(t, result.FinalSummary)

	_, err = db.SummarizeDirectory(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, core.ErrInvalidInputPath)
}

func TestSummarizeOversizedDocumentIsChunked(t *testing.T) {
	summarizer := mock.NewMockSummarizer()
	db := newTestDatabase(t,
		WithProvider(mock.NewMockProviderWithSummarizer(summarizer)),
		WithProcessorConfig(&hierarchy.Config{TokenBudget: 128}))
	ctx := context.Background()

	big := strings.TrimSpace(strings.Repeat("word ", 1200)) // well over the budget

	result, err := db.SummarizeDocuments(ctx, []core.SourceDocument{{Name: "big.txt", Content: big}})
	require.NoError(t, err)
	assert.True(t, result.Converged)

	nodes, err := db.GetNodesByBatch(ctx, result.BatchId)
	require.NoError(t, err)

	chunks := 0
	for _, node := range nodes {
		if node.Type == core.DocumentTypeChunk {
			chunks++
			assert.LessOrEqual(t, node.TokenCount, 128)
		}
	}
	assert.Greater(t, chunks, 1, "oversized document must be split")
	assert.Greater(t, summarizer.CallCount(), 1)
}

func TestGetRunStatusMissing(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.GetRunStatus(context.Background(), "no-such-batch")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
