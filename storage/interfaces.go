package storage

import (
	"context"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MeetingRepository provides operations for managing meeting records.
type MeetingRepository interface {
	Repository
	// PutMeeting inserts or replaces a meeting record.
	// Sets InsertedAt on first insert and refreshes UpdatedAt.
	// Returns the meeting with timestamps populated.
	PutMeeting(ctx context.Context, meeting *core.Meeting) (*core.Meeting, error)

	// GetMeeting retrieves a single meeting by ID.
	// Returns ErrNotFound if the meeting doesn't exist.
	GetMeeting(ctx context.Context, id string) (*core.Meeting, error)

	// AssignProject records a project assignment on a meeting.
	// An empty projectID clears the assignment.
	// Returns ErrNotFound if the meeting doesn't exist.
	AssignProject(ctx context.Context, id, projectID string, needsReview bool) error

	// MarkProcessed flags a meeting as fully ingested.
	// Returns ErrNotFound if the meeting doesn't exist.
	MarkProcessed(ctx context.Context, id string) error

	// GetMeetingsByDateRange retrieves meetings within a time range.
	// Returns meetings where start <= Date < end, ordered by date.
	GetMeetingsByDateRange(ctx context.Context, start, end time.Time) ([]*core.Meeting, error)

	// GetRecentMeetings retrieves the N most recent meetings, most recent first.
	GetRecentMeetings(ctx context.Context, limit int) ([]*core.Meeting, error)
}

// ChunkRepository provides operations for managing persisted transcript chunks.
type ChunkRepository interface {
	Repository
	// AddChunks persists one or more chunk records in a single transaction.
	// Sets CreatedAt if not already set. Re-adding an existing chunk ID
	// overwrites it, so re-ingesting a meeting converges.
	AddChunks(ctx context.Context, records ...*core.ChunkRecord) ([]*core.ChunkRecord, error)

	// GetChunk retrieves a single chunk record by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id string) (*core.ChunkRecord, error)

	// GetChunkPayloads retrieves chunk records by ID, hydrated with meeting
	// and project metadata. IDs that no longer resolve to a stored chunk,
	// and chunks whose stored bytes fail to decode, are dropped from the
	// result rather than reported as errors.
	GetChunkPayloads(ctx context.Context, ids ...string) ([]*core.ChunkPayload, error)

	// GetChunksByMeeting retrieves all chunks of a meeting, ordered by
	// chunk index.
	GetChunksByMeeting(ctx context.Context, meetingID string) ([]*core.ChunkRecord, error)

	// DeleteChunksByMeeting removes all chunks of a meeting.
	DeleteChunksByMeeting(ctx context.Context, meetingID string) error
}

// ProjectRepository provides operations for managing project records.
type ProjectRepository interface {
	Repository
	// PutProject inserts or replaces a project record.
	PutProject(ctx context.Context, project *core.Project) (*core.Project, error)

	// GetProject retrieves a single project by ID.
	// Returns ErrNotFound if the project doesn't exist.
	GetProject(ctx context.Context, id string) (*core.Project, error)

	// ListProjects retrieves all non-deleted projects.
	ListProjects(ctx context.Context) ([]*core.Project, error)
}

// VectorQuery carries the parameters of a nearest-neighbor lookup.
type VectorQuery struct {
	// TopK is the maximum number of matches to return.
	TopK int

	// ProjectID restricts matches to one project when non-empty.
	ProjectID string
}

// VectorIndex provides approximate nearest-neighbor storage for chunk
// embeddings. Implementations must be thread-safe.
type VectorIndex interface {
	// Insert adds or replaces entries keyed by entry ID.
	Insert(ctx context.Context, entries ...core.VectorEntry) error

	// Query returns up to TopK entries most similar to the given vector,
	// ordered by similarity descending.
	Query(ctx context.Context, vector []float32, query VectorQuery) ([]core.VectorMatch, error)

	// Close releases index resources.
	Close() error
}
