package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// MeetingRepository implements storage.MeetingRepository for BadgerDB.
type MeetingRepository struct {
	backend *Backend
}

var _ storage.MeetingRepository = (*MeetingRepository)(nil)

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(backend *Backend) *MeetingRepository {
	return &MeetingRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *MeetingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MeetingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutMeeting inserts or replaces a meeting record.
func (r *MeetingRepository) PutMeeting(ctx context.Context, meeting *core.Meeting) (*core.Meeting, error) {
	if err := core.ValidateMeeting(meeting); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMeetingKey(meeting.ID)

		old, err := readMeeting(tx, key)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if old != nil {
			meeting.InsertedAt = old.InsertedAt

			// Retire the old date index entry when the date moved.
			if !old.Date.Equal(meeting.Date) {
				if err := tx.Delete(makeMeetingDateKey(old.Date, old.ID)); err != nil {
					return err
				}
			}
		} else {
			meeting.InsertedAt = now
		}
		meeting.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalMeeting(meeting)); err != nil {
			return err
		}

		dateKey := makeMeetingDateKey(meeting.Date, meeting.ID)
		if err := tx.Set(dateKey, []byte(meeting.ID)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return meeting, err
}

// GetMeeting retrieves a single meeting by ID.
func (r *MeetingRepository) GetMeeting(ctx context.Context, id string) (*core.Meeting, error) {
	var result *core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readMeeting(tx, makeMeetingKey(id))
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

// AssignProject records a project assignment on a meeting.
func (r *MeetingRepository) AssignProject(ctx context.Context, id, projectID string, needsReview bool) error {
	return r.updateMeeting(id, func(meeting *core.Meeting) {
		meeting.ProjectID = projectID
		meeting.NeedsReview = needsReview
	})
}

// MarkProcessed flags a meeting as fully ingested.
func (r *MeetingRepository) MarkProcessed(ctx context.Context, id string) error {
	return r.updateMeeting(id, func(meeting *core.Meeting) {
		meeting.Processed = true
	})
}

// updateMeeting applies a mutation to a stored meeting inside one transaction.
func (r *MeetingRepository) updateMeeting(id string, mutate func(*core.Meeting)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMeetingKey(id)
		meeting, err := readMeeting(tx, key)
		if err != nil {
			return err
		}
		if meeting == nil {
			return storage.ErrNotFound
		}

		mutate(meeting)
		meeting.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalMeeting(meeting)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMeetingsByDateRange retrieves meetings within a time range.
func (r *MeetingRepository) GetMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Meeting, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialMeetingDateKey(start)
		endKey := makePartialMeetingDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if !hasPrefix(key, meetingDatePrefix+":") {
				break
			}
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var meetingID string
			if err := iter.Item().Value(func(val []byte) error {
				meetingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			meeting, err := readMeeting(tx, makeMeetingKey(meetingID))
			if err != nil {
				return err
			}
			if meeting != nil {
				results = append(results, meeting)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetRecentMeetings retrieves the N most recent meetings, most recent first.
func (r *MeetingRepository) GetRecentMeetings(ctx context.Context, limit int) ([]*core.Meeting, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.Meeting
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek just past the date index range and walk backwards.
		seekKey := append([]byte(meetingDatePrefix+":"), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		for iter.Seek(seekKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !hasPrefix(key, meetingDatePrefix+":") {
				break
			}

			var meetingID string
			if err := iter.Item().Value(func(val []byte) error {
				meetingID = string(val)
				return nil
			}); err != nil {
				return err
			}

			meeting, err := readMeeting(tx, makeMeetingKey(meetingID))
			if err != nil {
				return err
			}
			if meeting != nil {
				results = append(results, meeting)
			}
		}
		return nil
	}, false)

	return results, err
}

// readMeeting reads and decodes a meeting record, returning nil when the key
// is absent.
func readMeeting(tx *badger.Txn, key []byte) (*core.Meeting, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var meeting *core.Meeting
	err = item.Value(func(val []byte) error {
		var err error
		meeting, err = storage.UnmarshalMeeting(val)
		return err
	})
	return meeting, err
}

func hasPrefix(key []byte, prefix string) bool {
	return len(key) >= len(prefix) && string(key[:len(prefix)]) == prefix
}
