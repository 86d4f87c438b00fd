package core

import (
	"errors"
	"testing"
)

func validChunkNode() *HierarchyNode {
	return &HierarchyNode{
		BatchId: "batch-1",
		Level:   1,
		Type:    DocumentTypeChunk,
		Content: "some content",
	}
}

func validSummaryNode() *HierarchyNode {
	return &HierarchyNode{
		BatchId:  "batch-1",
		Level:    2,
		Type:     DocumentTypeSummary,
		Summary:  "some summary",
		ChildIds: []ID{1, 2},
	}
}

func TestValidateNode(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*HierarchyNode)
		node    *HierarchyNode
		wantErr error
	}{
		{
			name: "valid chunk node",
			node: validChunkNode(),
		},
		{
			name: "valid summary node",
			node: validSummaryNode(),
		},
		{
			name:    "nil node",
			node:    nil,
			wantErr: ErrInvalidNode,
		},
		{
			name:    "empty batch id",
			node:    validChunkNode(),
			mutate:  func(n *HierarchyNode) { n.BatchId = "" },
			wantErr: ErrEmptyBatchID,
		},
		{
			name:    "negative level",
			node:    validChunkNode(),
			mutate:  func(n *HierarchyNode) { n.Level = -1 },
			wantErr: ErrNegativeLevel,
		},
		{
			name:    "unknown document type",
			node:    validChunkNode(),
			mutate:  func(n *HierarchyNode) { n.Type = DocumentType(42) },
			wantErr: ErrInvalidDocumentType,
		},
		{
			name:    "summary node without summary",
			node:    validSummaryNode(),
			mutate:  func(n *HierarchyNode) { n.Summary = "" },
			wantErr: ErrContentSummaryMismatch,
		},
		{
			name:    "summary node with raw content",
			node:    validSummaryNode(),
			mutate:  func(n *HierarchyNode) { n.Content = "leftover" },
			wantErr: ErrContentSummaryMismatch,
		},
		{
			name:    "chunk node with summary",
			node:    validChunkNode(),
			mutate:  func(n *HierarchyNode) { n.Summary = "stray" },
			wantErr: ErrContentSummaryMismatch,
		},
		{
			name:    "chunk node without content",
			node:    validChunkNode(),
			mutate:  func(n *HierarchyNode) { n.Content = "" },
			wantErr: ErrContentSummaryMismatch,
		},
		{
			name: "level zero with children",
			node: &HierarchyNode{
				BatchId:  "batch-1",
				Level:    0,
				Type:     DocumentTypeSource,
				Content:  "content",
				ChildIds: []ID{1},
			},
			wantErr: ErrInvalidNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := tt.node
			if tt.mutate != nil {
				tt.mutate(node)
			}
			err := ValidateNode(node)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNode() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateParentChild(t *testing.T) {
	parent := &HierarchyNode{Id: 10, Level: 2, ChildIds: []ID{20, 21}}
	child := &HierarchyNode{Id: 20, Level: 1, ParentId: 10}

	if err := ValidateParentChild(parent, child); err != nil {
		t.Errorf("ValidateParentChild() unexpected error: %v", err)
	}

	t.Run("child points elsewhere", func(t *testing.T) {
		bad := &HierarchyNode{Id: 20, Level: 1, ParentId: 99}
		if err := ValidateParentChild(parent, bad); !errors.Is(err, ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
	})

	t.Run("parent does not list child", func(t *testing.T) {
		bad := &HierarchyNode{Id: 30, Level: 1, ParentId: 10}
		if err := ValidateParentChild(parent, bad); !errors.Is(err, ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
	})

	t.Run("level gap", func(t *testing.T) {
		bad := &HierarchyNode{Id: 21, Level: 0, ParentId: 10}
		if err := ValidateParentChild(parent, bad); !errors.Is(err, ErrLevelGap) {
			t.Errorf("expected ErrLevelGap, got %v", err)
		}
	})

	t.Run("nil arguments", func(t *testing.T) {
		if err := ValidateParentChild(nil, child); !errors.Is(err, ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
	})
}

func TestValidateRunStatus(t *testing.T) {
	valid := &RunStatus{
		BatchId:            "batch-1",
		CurrentLevel:       1,
		TotalDocuments:     10,
		ProcessedDocuments: 5,
		State:              RunStateProcessing,
	}
	if err := ValidateRunStatus(valid); err != nil {
		t.Errorf("ValidateRunStatus() unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*RunStatus)
		wantErr error
	}{
		{
			name:    "empty batch id",
			mutate:  func(s *RunStatus) { s.BatchId = "" },
			wantErr: ErrEmptyBatchID,
		},
		{
			name:    "negative level",
			mutate:  func(s *RunStatus) { s.CurrentLevel = -1 },
			wantErr: ErrNegativeLevel,
		},
		{
			name:    "unknown state",
			mutate:  func(s *RunStatus) { s.State = RunState(9) },
			wantErr: ErrInvalidRunStatus,
		},
		{
			name:    "processed exceeds total",
			mutate:  func(s *RunStatus) { s.ProcessedDocuments = 11 },
			wantErr: ErrInvalidRunStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := *valid
			tt.mutate(&status)
			if err := ValidateRunStatus(&status); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRunStatus() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateRunStatus(nil); !errors.Is(err, ErrInvalidRunStatus) {
		t.Errorf("expected ErrInvalidRunStatus for nil, got %v", err)
	}
}
