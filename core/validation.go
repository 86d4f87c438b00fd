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

import "fmt"

// ValidateNode validates a HierarchyNode according to domain rules.
//
// Validation rules:
//   - BatchId must not be empty
//   - Level must be non-negative
//   - Type must be a known DocumentType
//   - Summary nodes carry a summary and no content; source/chunk/batch
//     nodes carry content and no summary
//   - Level-0 nodes have no children
//
// NOT validated (populated during processing):
//   - ParentId (0 until the next pass assigns a parent)
//   - ID (0 is valid from database sequences)
func ValidateNode(node *HierarchyNode) error {
	if node == nil {
		return fmt.Errorf("%w: node is nil", ErrInvalidNode)
	}

	if node.BatchId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrEmptyBatchID)
	}

	if node.Level < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrNegativeLevel)
	}

	if err := ValidateDocumentType(node.Type); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNode, err)
	}

	if node.Type.Condensed() {
		if node.Summary == "" || node.Content != "" {
			return fmt.Errorf("%w: %w: summary node", ErrInvalidNode, ErrContentSummaryMismatch)
		}
	} else {
		if node.Content == "" || node.Summary != "" {
			return fmt.Errorf("%w: %w: %s node", ErrInvalidNode, ErrContentSummaryMismatch, node.Type)
		}
	}

	if node.Level == 0 && len(node.ChildIds) > 0 {
		return fmt.Errorf("%w: level-0 node cannot have children", ErrInvalidNode)
	}

	return nil
}

// ValidateParentChild validates the structural invariants between a parent
// node and one of its children: the child points up at the parent, the
// parent's ChildIds contains the child, and the levels differ by exactly one.
func ValidateParentChild(parent, child *HierarchyNode) error {
	if parent == nil || child == nil {
		return fmt.Errorf("%w: parent and child are required", ErrInvalidNode)
	}

	if child.ParentId != parent.Id {
		return fmt.Errorf("%w: child %d does not reference parent %d", ErrInvalidNode, child.Id, parent.Id)
	}

	found := false
	for _, id := range parent.ChildIds {
		if id == child.Id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: parent %d does not list child %d", ErrInvalidNode, parent.Id, child.Id)
	}

	if parent.Level != child.Level+1 {
		return fmt.Errorf("%w: parent level %d, child level %d", ErrLevelGap, parent.Level, child.Level)
	}

	return nil
}

// ValidateDocumentType validates that a DocumentType has a valid value.
func ValidateDocumentType(t DocumentType) error {
	switch t {
	case DocumentTypeSource, DocumentTypeChunk, DocumentTypeBatch, DocumentTypeSummary:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidDocumentType, t)
	}
}

// ValidateRunStatus validates a RunStatus according to domain rules.
func ValidateRunStatus(status *RunStatus) error {
	if status == nil {
		return fmt.Errorf("%w: status is nil", ErrInvalidRunStatus)
	}

	if status.BatchId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRunStatus, ErrEmptyBatchID)
	}

	if status.CurrentLevel < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRunStatus, ErrNegativeLevel)
	}

	switch status.State {
	case RunStateProcessing, RunStateCompleted, RunStateFailed:
	default:
		return fmt.Errorf("%w: state value %d", ErrInvalidRunStatus, status.State)
	}

	if status.ProcessedDocuments > status.TotalDocuments && status.TotalDocuments > 0 {
		return fmt.Errorf("%w: processed %d exceeds total %d", ErrInvalidRunStatus,
			status.ProcessedDocuments, status.TotalDocuments)
	}

	return nil
}
