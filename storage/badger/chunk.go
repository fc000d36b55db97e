package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks persists chunk records in a single transaction. Existing chunk
// IDs are overwritten, so re-ingesting a meeting converges on the same state.
func (r *ChunkRepository) AddChunks(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, record := range records {
			if err := core.ValidateChunkRecord(record); err != nil {
				return err
			}
			if record.CreatedAt.IsZero() {
				record.CreatedAt = now
			}

			key := makeChunkKey(record.ID)
			if err := tx.Set(key, storage.MarshalChunkRecord(record)); err != nil {
				return err
			}

			indexKey := makeChunkMeetingKey(record.MeetingID, record.ChunkIndex)
			if err := tx.Set(indexKey, []byte(record.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// GetChunk retrieves a single chunk record by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id string) (*core.ChunkRecord, error) {
	var result *core.ChunkRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunkRecord(tx, makeChunkKey(id))
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

// GetChunkPayloads retrieves chunks by ID, hydrated with meeting and project
// metadata. Missing chunks and undecodable stored bytes are dropped from the
// result; index drift must not fail a retrieval.
func (r *ChunkRepository) GetChunkPayloads(ctx context.Context, ids ...string) ([]*core.ChunkPayload, error) {
	var results []*core.ChunkPayload

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		meetings := make(map[string]*core.Meeting)
		projects := make(map[string]*core.Project)

		for _, id := range ids {
			record, err := readChunkRecord(tx, makeChunkKey(id))
			if err != nil {
				r.backend.logger.Warn("skipping undecodable chunk record",
					"chunk_id", id, "error", err)
				continue
			}
			if record == nil {
				continue
			}

			payload := &core.ChunkPayload{Record: *record}

			meeting, ok := meetings[record.MeetingID]
			if !ok {
				meeting, err = readMeeting(tx, makeMeetingKey(record.MeetingID))
				if err != nil {
					return err
				}
				meetings[record.MeetingID] = meeting
			}
			if meeting != nil {
				payload.MeetingTitle = meeting.Title
				payload.MeetingDate = meeting.Date
			}

			projectID := record.ProjectID
			if projectID == "" && meeting != nil {
				projectID = meeting.ProjectID
			}
			if projectID != "" {
				project, ok := projects[projectID]
				if !ok {
					project, err = readProject(tx, makeProjectKey(projectID))
					if err != nil {
						return err
					}
					projects[projectID] = project
				}
				if project != nil {
					payload.ProjectTitle = project.Title
				}
			}

			results = append(results, payload)
		}
		return nil
	}, false)

	return results, err
}

// GetChunksByMeeting retrieves all chunks of a meeting in chunk index order.
func (r *ChunkRepository) GetChunksByMeeting(ctx context.Context, meetingID string) ([]*core.ChunkRecord, error) {
	var results []*core.ChunkRecord

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkMeetingKey(meetingID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID string
			if err := iter.Item().Value(func(val []byte) error {
				chunkID = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := readChunkRecord(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteChunksByMeeting removes all chunks of a meeting plus their index
// entries.
func (r *ChunkRepository) DeleteChunksByMeeting(ctx context.Context, meetingID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		var indexKeys [][]byte
		var chunkIDs []string

		// Collect first; the iterator must be closed before mutating the txn.
		err := func() error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = makePartialChunkMeetingKey(meetingID)
			iter := tx.NewIterator(opts)
			defer iter.Close()

			for iter.Rewind(); iter.Valid(); iter.Next() {
				indexKeys = append(indexKeys, iter.Item().KeyCopy(nil))
				if err := iter.Item().Value(func(val []byte) error {
					chunkIDs = append(chunkIDs, string(val))
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		}()
		if err != nil {
			return err
		}

		for _, chunkID := range chunkIDs {
			if err := tx.Delete(makeChunkKey(chunkID)); err != nil {
				return err
			}
		}
		for _, key := range indexKeys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readChunkRecord reads and decodes a chunk record, returning nil when the
// key is absent.
func readChunkRecord(tx *badger.Txn, key []byte) (*core.ChunkRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ChunkRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalChunkRecord(val)
		return err
	})
	return record, err
}
