package storage

import (
	"context"

	"github.com/poiesic/condensit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// NodeRepository provides operations for managing hierarchy nodes.
type NodeRepository interface {
	Repository
	// CreateNodes persists one or more hierarchy nodes atomically.
	// For nodes with Id=0, generates new IDs from sequence; nodes with a
	// content-derived ID keep it. Sets CreatedAt/UpdatedAt timestamps.
	// Nodes referencing a ParentId or ChildIds that exist neither in
	// storage nor in the same call fail the whole write with ErrIntegrity.
	// Returns the nodes with generated IDs and timestamps populated.
	CreateNodes(ctx context.Context, nodes ...*core.HierarchyNode) ([]*core.HierarchyNode, error)

	// UpdateNodes updates existing hierarchy nodes atomically.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any node doesn't exist.
	UpdateNodes(ctx context.Context, nodes ...*core.HierarchyNode) ([]*core.HierarchyNode, error)

	// GetNode retrieves a single node by ID.
	// Returns ErrNotFound if the node doesn't exist.
	GetNode(ctx context.Context, id core.ID) (*core.HierarchyNode, error)

	// GetNodes retrieves multiple nodes by their IDs.
	// Returns only the nodes that exist (no error for missing nodes).
	GetNodes(ctx context.Context, ids ...core.ID) ([]*core.HierarchyNode, error)

	// GetNodesAtLevel retrieves all nodes of a batch at the given level,
	// ordered by insertion order (ascending ID within the level index).
	GetNodesAtLevel(ctx context.Context, batchID string, level int) ([]*core.HierarchyNode, error)

	// GetNodesByBatch retrieves every node belonging to a batch, ordered
	// by level then insertion order.
	GetNodesByBatch(ctx context.Context, batchID string) ([]*core.HierarchyNode, error)

	// DeleteBatch removes all nodes and index entries for a batch.
	DeleteBatch(ctx context.Context, batchID string) error
}

// RunStatusRepository provides operations for tracking summarization runs.
type RunStatusRepository interface {
	Repository
	// CreateRunStatus persists the initial status record for a run.
	// Returns ErrDuplicateKey if a status for the batch already exists.
	CreateRunStatus(ctx context.Context, status *core.RunStatus) error

	// UpdateRunStatus overwrites the status record for a run.
	// Returns ErrNotFound if no status exists for the batch.
	UpdateRunStatus(ctx context.Context, status *core.RunStatus) error

	// GetRunStatus retrieves the status record for a batch.
	// Returns ErrNotFound if no status exists.
	GetRunStatus(ctx context.Context, batchID string) (*core.RunStatus, error)
}
