package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/condensit/core"
	"github.com/poiesic/condensit/storage"
)

// RunStatusRepository implements storage.RunStatusRepository for BadgerDB.
type RunStatusRepository struct {
	backend *Backend
}

var _ storage.RunStatusRepository = (*RunStatusRepository)(nil)

// NewRunStatusRepository creates a new RunStatusRepository.
func NewRunStatusRepository(backend *Backend) storage.RunStatusRepository {
	return &RunStatusRepository{backend: backend}
}

// Close is a no-op; the repository owns no resources beyond the backend.
func (r *RunStatusRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *RunStatusRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateRunStatus persists the initial status record for a run.
func (r *RunStatusRepository) CreateRunStatus(ctx context.Context, status *core.RunStatus) error {
	if err := core.ValidateRunStatus(status); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunStatusKey(status.BatchId)
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrDuplicateKey
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if err := tx.Set(key, storage.MarshalRunStatus(status)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// UpdateRunStatus overwrites the status record for a run.
func (r *RunStatusRepository) UpdateRunStatus(ctx context.Context, status *core.RunStatus) error {
	if err := core.ValidateRunStatus(status); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeRunStatusKey(status.BatchId)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Set(key, storage.MarshalRunStatus(status)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetRunStatus retrieves the status record for a batch.
func (r *RunStatusRepository) GetRunStatus(ctx context.Context, batchID string) (*core.RunStatus, error) {
	var result *core.RunStatus
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunStatusKey(batchID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			result, unmarshalErr = storage.UnmarshalRunStatus(val)
			return unmarshalErr
		})
	}, false)
	return result, err
}
