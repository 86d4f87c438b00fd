package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/condensit/core"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abc"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 100, EstimateTokens(strings.Repeat("x", 400)))
}

func TestSourceNodes(t *testing.T) {
	docs := []core.SourceDocument{
		{Name: "a.txt", Content: "alpha content"},
		{Name: "empty.txt", Content: "   \n\t  "},
		{Name: "b.txt", Content: "beta content", Metadata: map[string]string{"origin": "test"}},
	}

	nodes := SourceNodes("batch-1", docs)
	require.Len(t, nodes, 2, "empty document must be skipped")

	assert.Equal(t, core.IDFromContent("alpha content"), nodes[0].Id)
	assert.Equal(t, "batch-1", nodes[0].BatchId)
	assert.Equal(t, 0, nodes[0].Level)
	assert.Equal(t, core.DocumentTypeSource, nodes[0].Type)
	assert.Equal(t, "a.txt", nodes[0].Metadata[core.MetadataKeyFilename])
	assert.Equal(t, []core.ID{nodes[0].Id}, nodes[0].SourceDocumentIds)

	assert.Equal(t, "test", nodes[1].Metadata["origin"])
	assert.Equal(t, "b.txt", nodes[1].Metadata[core.MetadataKeyFilename])
}

func TestSourceNodesDeterministicIds(t *testing.T) {
	docs := []core.SourceDocument{{Name: "a.txt", Content: "same content"}}
	first := SourceNodes("b1", docs)
	second := SourceNodes("b2", docs)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Id, second[0].Id)
}

func TestChunkSplitsOversizedDocument(t *testing.T) {
	// ~1800 tokens of word soup against a 512 token budget should land
	// in 4 ordered chunks.
	content := strings.TrimSpace(strings.Repeat("word ", 1440)) // ~1800 tokens
	source := SourceNodes("batch-1", []core.SourceDocument{{Name: "big.txt", Content: content}})
	require.Len(t, source, 1)
	require.Greater(t, source[0].TokenCount, 512)

	nodes := Chunk("batch-1", source, 512)
	require.Len(t, nodes, 4)

	var rejoined []string
	for i, node := range nodes {
		assert.Equal(t, 1, node.Level)
		assert.Equal(t, core.DocumentTypeChunk, node.Type)
		assert.LessOrEqual(t, node.TokenCount, 512)
		assert.Equal(t, []core.ID{source[0].Id}, node.SourceDocumentIds)
		assert.Empty(t, node.ChildIds)
		assert.Equal(t, "big.txt", node.Metadata[core.MetadataKeyFilename])
		assert.Equal(t, strconv.Itoa(i), node.Metadata["chunk_index"])
		rejoined = append(rejoined, node.Content)
	}

	// No words lost or duplicated across the split.
	assert.Equal(t, strings.Fields(content), strings.Fields(strings.Join(rejoined, " ")))
}

func TestChunkPacksSmallDocuments(t *testing.T) {
	docs := []core.SourceDocument{
		{Name: "a.txt", Content: strings.Repeat("a ", 200)}, // ~100 tokens
		{Name: "b.txt", Content: strings.Repeat("b ", 200)},
		{Name: "c.txt", Content: strings.Repeat("c ", 200)},
	}
	sources := SourceNodes("batch-1", docs)
	require.Len(t, sources, 3)

	nodes := Chunk("batch-1", sources, 512)
	require.Len(t, nodes, 1)
	assert.Equal(t, core.DocumentTypeBatch, nodes[0].Type)
	assert.Equal(t, 1, nodes[0].Level)
	assert.Len(t, nodes[0].SourceDocumentIds, 3)
	assert.Contains(t, nodes[0].Content, "a a")
	assert.Contains(t, nodes[0].Content, "c c")
}

func TestChunkFlushesWhenBudgetExceeded(t *testing.T) {
	docs := []core.SourceDocument{
		{Name: "a.txt", Content: strings.Repeat("a ", 600)}, // ~300 tokens
		{Name: "b.txt", Content: strings.Repeat("b ", 600)},
		{Name: "c.txt", Content: strings.Repeat("c ", 600)},
	}
	sources := SourceNodes("batch-1", docs)

	nodes := Chunk("batch-1", sources, 512)
	require.Len(t, nodes, 2)
	assert.Len(t, nodes[0].SourceDocumentIds, 1)
	assert.Len(t, nodes[1].SourceDocumentIds, 2)
	for _, node := range nodes {
		assert.Equal(t, core.DocumentTypeBatch, node.Type)
	}
}

func TestChunkMixedSplitAndPack(t *testing.T) {
	docs := []core.SourceDocument{
		{Name: "small1.txt", Content: strings.Repeat("x ", 100)},
		{Name: "huge.txt", Content: strings.Repeat("y ", 2000)}, // ~1000 tokens
		{Name: "small2.txt", Content: strings.Repeat("z ", 100)},
	}
	sources := SourceNodes("batch-1", docs)

	nodes := Chunk("batch-1", sources, 512)
	require.Len(t, nodes, 4)

	// Order: small1 flushed before the split, then two chunks, then small2.
	assert.Equal(t, core.DocumentTypeBatch, nodes[0].Type)
	assert.Equal(t, core.DocumentTypeChunk, nodes[1].Type)
	assert.Equal(t, core.DocumentTypeChunk, nodes[2].Type)
	assert.Equal(t, core.DocumentTypeBatch, nodes[3].Type)
}

func TestChunkDefaultBudget(t *testing.T) {
	sources := SourceNodes("batch-1", []core.SourceDocument{{Name: "a.txt", Content: "tiny"}})
	nodes := Chunk("batch-1", sources, 0)
	require.Len(t, nodes, 1)
	assert.LessOrEqual(t, nodes[0].TokenCount, DefaultTokenBudget)
}
