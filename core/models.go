package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewBatchID generates a unique identifier for one summarization run.
func NewBatchID() string {
	return uuid.NewString()
}

// DocumentType distinguishes raw content from AI-produced condensation.
// The tag is stored explicitly so that summaries are never re-chunked as
// if they were raw text.
type DocumentType int

const (
	// DocumentTypeSource represents an original level-0 document.
	DocumentTypeSource DocumentType = iota + 1
	// DocumentTypeChunk represents a slice of a single oversized document.
	DocumentTypeChunk
	// DocumentTypeBatch represents several small documents packed together.
	DocumentTypeBatch
	// DocumentTypeSummary represents AI-produced condensation of child nodes.
	DocumentTypeSummary
)

// String returns the human-readable name for the document type.
func (t DocumentType) String() string {
	switch t {
	case DocumentTypeSource:
		return "source"
	case DocumentTypeChunk:
		return "chunk"
	case DocumentTypeBatch:
		return "batch"
	case DocumentTypeSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// Condensed reports whether the type carries AI-produced text rather than
// raw content.
func (t DocumentType) Condensed() bool {
	return t == DocumentTypeSummary
}

// MetadataKeyDegraded marks a summary node whose text was produced by the
// extractive fallback rather than the AI backend.
const MetadataKeyDegraded = "degraded"

// MetadataKeyFilename records the originating file for source nodes.
const MetadataKeyFilename = "filename"

// HierarchyNode is one unit of content or summary in a run's tree.
// Level 0 holds original source documents; each higher level condenses
// the one below it. Nodes are immutable after creation except for
// ParentId, which the next processing pass fills in.
type HierarchyNode struct {
	Id                ID
	BatchId           string
	Level             int
	Type              DocumentType
	Content           string // present only for source/chunk/batch nodes
	Summary           string // present only for summary nodes
	TokenCount        int
	ParentId          ID   // 0 until the node is summarized into a parent
	ChildIds          []ID // ordered; empty for level-0 nodes
	SourceDocumentIds []ID // transitive closure of contributing level-0 ids
	Metadata          map[string]string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Text returns the node's effective text: the summary for condensed nodes,
// the raw content otherwise.
func (n *HierarchyNode) Text() string {
	if n.Type.Condensed() {
		return n.Summary
	}
	return n.Content
}

// Degraded reports whether the node carries a fallback summary.
func (n *HierarchyNode) Degraded() bool {
	return n.Metadata[MetadataKeyDegraded] == "true"
}

// RunState represents the lifecycle state of a summarization run.
type RunState int

const (
	// RunStateProcessing indicates an in-flight run.
	RunStateProcessing RunState = iota + 1
	// RunStateCompleted indicates a run that finished, converged or not.
	RunStateCompleted
	// RunStateFailed indicates a run aborted by a fatal error.
	RunStateFailed
)

// String returns the human-readable name for the run state.
func (s RunState) String() string {
	switch s {
	case RunStateProcessing:
		return "processing"
	case RunStateCompleted:
		return "completed"
	case RunStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunStatus tracks progress and outcome of one summarization run.
// Created at run start, updated after each level, finalized at termination.
type RunStatus struct {
	BatchId            string
	CurrentLevel       int
	TotalDocuments     int
	ProcessedDocuments int
	State              RunState
	ErrorMessage       string
	StartedAt          time.Time
	CompletedAt        time.Time
}

// SourceDocument is one raw input document prior to chunking.
type SourceDocument struct {
	Name     string
	Content  string
	Metadata map[string]string
}
