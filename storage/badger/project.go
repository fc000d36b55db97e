package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// ProjectRepository implements storage.ProjectRepository for BadgerDB.
type ProjectRepository struct {
	backend *Backend
}

var _ storage.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(backend *Backend) *ProjectRepository {
	return &ProjectRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ProjectRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ProjectRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutProject inserts or replaces a project record.
func (r *ProjectRepository) PutProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	if project == nil || project.ID == "" {
		return nil, storage.ErrInvalidQuery
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProjectKey(project.ID)

		old, err := readProject(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			project.InsertedAt = old.InsertedAt
		} else {
			project.InsertedAt = now
		}
		project.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalProject(project)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return project, err
}

// GetProject retrieves a single project by ID.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (*core.Project, error) {
	var result *core.Project
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readProject(tx, makeProjectKey(id))
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

// ListProjects retrieves all non-deleted projects.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]*core.Project, error) {
	var results []*core.Project

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(projectRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var project *core.Project
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				project, err = storage.UnmarshalProject(val)
				return err
			}); err != nil {
				return err
			}
			if project != nil && !project.Deleted {
				results = append(results, project)
			}
		}
		return nil
	}, false)

	return results, err
}

// readProject reads and decodes a project record, returning nil when the key
// is absent.
func readProject(tx *badger.Txn, key []byte) (*core.Project, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var project *core.Project
	err = item.Value(func(val []byte) error {
		var err error
		project, err = storage.UnmarshalProject(val)
		return err
	})
	return project, err
}
