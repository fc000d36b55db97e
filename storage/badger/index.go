package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// VectorIndex implements storage.VectorIndex with a brute-force scan over
// entries stored in BadgerDB. Fine for local corpora; swap in the remote
// index for anything large.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a vector index over the given backend.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (x *VectorIndex) Close() error {
	return nil
}

// Insert adds or replaces vector entries keyed by entry ID.
func (x *VectorIndex) Insert(ctx context.Context, entries ...core.VectorEntry) error {
	return x.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			entry := &entries[i]
			if entry.ID == "" || len(entry.Vector) == 0 {
				return storage.ErrInvalidQuery
			}
			key := makeVectorKey(entry.ID)
			if err := tx.Set(key, storage.MarshalVectorEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query scans all entries, scoring by dot product. Vectors are assumed
// normalized, making the dot product a cosine similarity.
func (x *VectorIndex) Query(ctx context.Context, vector []float32, query storage.VectorQuery) ([]core.VectorMatch, error) {
	if query.TopK <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []core.VectorMatch

	err := x.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorEntryPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.VectorEntry
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalVectorEntry(val)
				return err
			}); err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			if query.ProjectID != "" && entry.ProjectID != query.ProjectID {
				continue
			}

			results = append(results, core.VectorMatch{
				ID:    entry.ID,
				Score: dotProduct(vector, entry.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b core.VectorMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > query.TopK {
		results = results[:query.TopK]
	}

	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
