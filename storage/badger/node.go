package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/condensit/core"
	"github.com/poiesic/condensit/storage"
)

// NodeRepository implements storage.NodeRepository for BadgerDB.
type NodeRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.NodeRepository = (*NodeRepository)(nil)

// NewNodeRepository creates a new NodeRepository.
func NewNodeRepository(backend *Backend) (storage.NodeRepository, error) {
	return newNodeRepository(backend)
}

func newNodeRepository(backend *Backend) (*NodeRepository, error) {
	idSeq, err := backend.GetSequence(nodeIDSeq)
	if err != nil {
		return nil, err
	}

	return &NodeRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *NodeRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *NodeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateNodes persists one or more hierarchy nodes atomically.
func (r *NodeRepository) CreateNodes(ctx context.Context, nodes ...*core.HierarchyNode) ([]*core.HierarchyNode, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Assign IDs first so same-call references can be verified.
		created := make(map[core.ID]bool, len(nodes))
		for _, node := range nodes {
			if err := core.ValidateNode(node); err != nil {
				return err
			}
			if node.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				node.Id = core.ID(nextID)
			}
			created[node.Id] = true
		}

		for _, node := range nodes {
			if err := r.checkReferences(tx, node, created); err != nil {
				return err
			}

			node.CreatedAt = time.Now().UTC()
			node.UpdatedAt = node.CreatedAt

			key := makeNodeKey(node.Id)
			if err := tx.Set(key, storage.MarshalNode(node)); err != nil {
				return err
			}

			levelKey := makeNodeLevelKey(node.BatchId, node.Level, node.Id)
			if err := tx.Set(levelKey, storage.MarshalID(node.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// UpdateNodes updates existing hierarchy nodes.
func (r *NodeRepository) UpdateNodes(ctx context.Context, nodes ...*core.HierarchyNode) ([]*core.HierarchyNode, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, node := range nodes {
			if err := core.ValidateNode(node); err != nil {
				return err
			}

			key := makeNodeKey(node.Id)
			old, err := r.readNode(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			node.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalNode(node)); err != nil {
				return err
			}

			// Move the index entry if batch or level changed.
			if old.BatchId != node.BatchId || old.Level != node.Level {
				if err := tx.Delete(makeNodeLevelKey(old.BatchId, old.Level, old.Id)); err != nil {
					return err
				}
				if err := tx.Set(makeNodeLevelKey(node.BatchId, node.Level, node.Id), storage.MarshalID(node.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// GetNode retrieves a single node by ID.
func (r *NodeRepository) GetNode(ctx context.Context, id core.ID) (*core.HierarchyNode, error) {
	var result *core.HierarchyNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readNode(tx, makeNodeKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetNodes retrieves multiple nodes by their IDs.
func (r *NodeRepository) GetNodes(ctx context.Context, ids ...core.ID) ([]*core.HierarchyNode, error) {
	var result []*core.HierarchyNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			node, err := r.readNode(tx, makeNodeKey(id))
			if err != nil {
				return err
			}
			if node != nil {
				result = append(result, node)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetNodesAtLevel retrieves all nodes of a batch at the given level.
func (r *NodeRepository) GetNodesAtLevel(ctx context.Context, batchID string, level int) ([]*core.HierarchyNode, error) {
	return r.scanIndex(makePartialLevelKey(batchID, level))
}

// GetNodesByBatch retrieves every node of a batch, ordered by level then
// insertion order.
func (r *NodeRepository) GetNodesByBatch(ctx context.Context, batchID string) ([]*core.HierarchyNode, error) {
	return r.scanIndex(makeBatchKeyPrefix(batchID))
}

// DeleteBatch removes all nodes and index entries for a batch.
func (r *NodeRepository) DeleteBatch(ctx context.Context, batchID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeBatchKeyPrefix(batchID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)

		var indexKeys [][]byte
		var ids []core.ID
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			indexKeys = append(indexKeys, item.KeyCopy(nil))
			var id core.ID
			if err := item.Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}
			ids = append(ids, id)
		}
		iter.Close()

		for _, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := tx.Delete(makeNodeKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// scanIndex walks a level index prefix and resolves the full nodes.
func (r *NodeRepository) scanIndex(prefix []byte) ([]*core.HierarchyNode, error) {
	var results []*core.HierarchyNode
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			node, err := r.readNode(tx, makeNodeKey(id))
			if err != nil {
				return err
			}
			if node != nil {
				results = append(results, node)
			}
		}
		return nil
	}, false)
	return results, err
}

// checkReferences verifies every parent and child link of a node resolves
// to an existing node or one created in the same call.
func (r *NodeRepository) checkReferences(tx *badger.Txn, node *core.HierarchyNode, created map[core.ID]bool) error {
	refs := make([]core.ID, 0, len(node.ChildIds)+1)
	if node.ParentId != 0 {
		refs = append(refs, node.ParentId)
	}
	refs = append(refs, node.ChildIds...)

	for _, ref := range refs {
		if created[ref] {
			continue
		}
		existing, err := r.readNode(tx, makeNodeKey(ref))
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: node %d references missing node %d", storage.ErrIntegrity, node.Id, ref)
		}
	}
	return nil
}

// readNode reads a hierarchy node from the transaction.
func (r *NodeRepository) readNode(tx *badger.Txn, key []byte) (*core.HierarchyNode, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var node *core.HierarchyNode
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		node, unmarshalErr = storage.UnmarshalNode(val)
		return unmarshalErr
	})
	return node, err
}
