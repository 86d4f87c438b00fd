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


// Package chunker splits raw source documents into token-bounded level-1
// nodes. This step is pure data rearrangement: it never invokes the
// summarization backend and has no side effects besides emitting nodes.
package chunker

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/condensit/core"
)

// DefaultTokenBudget is the per-batch token budget used when none is
// configured.
const DefaultTokenBudget = 512

// SourceNodes builds level-0 nodes for the given documents. IDs are
// content-hashed so identical documents map to identical ids. Documents
// with no extractable content are skipped and logged, not emitted empty.
func SourceNodes(batchID string, docs []core.SourceDocument) []*core.HierarchyNode {
	now := time.Now().UTC()
	nodes := make([]*core.HierarchyNode, 0, len(docs))
	for _, doc := range docs {
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			slog.Warn("skipping document with no extractable content", "name", doc.Name)
			continue
		}

		metadata := map[string]string{}
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		if doc.Name != "" {
			metadata[core.MetadataKeyFilename] = doc.Name
		}

		node := &core.HierarchyNode{
			Id:         core.IDFromContent(content),
			BatchId:    batchID,
			Level:      0,
			Type:       core.DocumentTypeSource,
			Content:    content,
			TokenCount: EstimateTokens(content),
			Metadata:   metadata,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		node.SourceDocumentIds = []core.ID{node.Id}
		nodes = append(nodes, node)
	}
	return nodes
}

// Chunk turns level-0 source nodes into token-bounded level-1 nodes.
//
// A source exceeding tokenBudget is split into multiple ordered chunk
// nodes; smaller sources are packed together into batch nodes up to the
// budget. Provenance flows through SourceDocumentIds; level-1 nodes carry
// no child links (chunking is rearrangement, not summarization).
func Chunk(batchID string, sources []*core.HierarchyNode, tokenBudget int) []*core.HierarchyNode {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}

	var result []*core.HierarchyNode
	var pack []*core.HierarchyNode
	packTokens := 0

	flush := func() {
		if len(pack) == 0 {
			return
		}
		result = append(result, packNode(batchID, pack))
		pack = nil
		packTokens = 0
	}

	for _, source := range sources {
		if source.TokenCount > tokenBudget {
			flush()
			result = append(result, splitSource(batchID, source, tokenBudget)...)
			continue
		}

		if packTokens+source.TokenCount > tokenBudget {
			flush()
		}
		pack = append(pack, source)
		packTokens += source.TokenCount
	}
	flush()

	slog.Debug("chunked sources", "sources", len(sources), "nodes", len(result), "tokenBudget", tokenBudget)
	return result
}

// splitSource cuts one oversized source into ordered chunk nodes, each
// within the token budget, breaking at whitespace where possible.
func splitSource(batchID string, source *core.HierarchyNode, tokenBudget int) []*core.HierarchyNode {
	now := time.Now().UTC()
	maxChars := budgetChars(tokenBudget)
	content := source.Content

	var chunks []*core.HierarchyNode
	index := 0
	for len(content) > 0 {
		piece := content
		if len(piece) > maxChars {
			cut := maxChars
			// Prefer a whitespace boundary in the back half of the chunk
			if ws := strings.LastIndexAny(piece[:maxChars], " \t\n"); ws > maxChars/2 {
				cut = ws
			}
			piece = piece[:cut]
		}
		content = strings.TrimSpace(content[len(piece):])
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		chunks = append(chunks, &core.HierarchyNode{
			BatchId:    batchID,
			Level:      1,
			Type:       core.DocumentTypeChunk,
			Content:    piece,
			TokenCount: EstimateTokens(piece),
			SourceDocumentIds: []core.ID{
				source.Id,
			},
			Metadata:  chunkMetadata(source, index),
			CreatedAt: now,
			UpdatedAt: now,
		})
		index++
	}
	return chunks
}

// packNode joins several small sources into one batch node.
func packNode(batchID string, pack []*core.HierarchyNode) *core.HierarchyNode {
	now := time.Now().UTC()

	parts := make([]string, len(pack))
	sourceIDs := make([]core.ID, len(pack))
	for i, node := range pack {
		parts[i] = node.Content
		sourceIDs[i] = node.Id
	}
	content := strings.Join(parts, "\n\n")

	return &core.HierarchyNode{
		BatchId:           batchID,
		Level:             1,
		Type:              core.DocumentTypeBatch,
		Content:           content,
		TokenCount:        EstimateTokens(content),
		SourceDocumentIds: sourceIDs,
		Metadata:          map[string]string{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// chunkMetadata carries the originating filename and chunk position.
func chunkMetadata(source *core.HierarchyNode, index int) map[string]string {
	metadata := map[string]string{}
	if name, ok := source.Metadata[core.MetadataKeyFilename]; ok {
		metadata[core.MetadataKeyFilename] = name
	}
	metadata["chunk_index"] = strconv.Itoa(index)
	return metadata
}
