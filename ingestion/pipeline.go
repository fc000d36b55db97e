package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/ai"
	"github.com/MeganHarrison/fireflies-transcripts/chunking"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/matching"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates the ingestion of meeting transcripts: project
// matching, chunking, embedding, and persistence.
type Pipeline struct {
	meetingRepository storage.MeetingRepository
	chunkRepository   storage.ChunkRepository
	projectRepository storage.ProjectRepository
	index             storage.VectorIndex
	embedder          ai.Embedder
	chunker           chunking.Chunker
	embeddingPool     *ants.Pool
	logger            *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunker sets the chunker used to split transcripts.
// Default is the balanced preset.
func WithChunker(chunker chunking.Chunker) Option {
	return func(p *Pipeline) error {
		if chunker != nil {
			p.chunker = chunker
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	meetingRepository storage.MeetingRepository,
	chunkRepository storage.ChunkRepository,
	projectRepository storage.ProjectRepository,
	index storage.VectorIndex,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if meetingRepository == nil {
		return nil, ErrMeetingRepositoryRequired
	}
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if projectRepository == nil {
		return nil, ErrProjectRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	chunker, err := chunking.NewPresetChunker(chunking.PresetBalanced)
	if err != nil {
		embeddingPool.Release()
		return nil, err
	}

	p := &Pipeline{
		meetingRepository: meetingRepository,
		chunkRepository:   chunkRepository,
		projectRepository: projectRepository,
		index:             index,
		embedder:          provider.Embedder(),
		chunker:           chunker,
		embeddingPool:     embeddingPool,
		logger:            slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Result summarizes one ingested meeting.
type Result struct {
	MeetingID  string
	Assignment core.Assignment
	ChunkCount int
}

// Ingest stores a meeting, matches it to a project, chunks its transcript,
// embeds the chunks, and persists both records and vectors. Re-ingesting
// the same meeting replaces its chunks, so the operation converges.
func (p *Pipeline) Ingest(ctx context.Context, meeting *core.Meeting, sentences []core.Sentence) (*Result, error) {
	if err := core.ValidateMeeting(meeting); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, ErrNoSentences
	}

	stored, err := p.meetingRepository.PutMeeting(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("failed to store meeting: %w", err)
	}

	assignment, err := p.assignProject(ctx, stored, sentences)
	if err != nil {
		return nil, err
	}

	chunks := p.chunker.Chunk(sentences)
	p.logger.Info("chunked transcript",
		slog.String("meeting_id", stored.ID),
		slog.Int("sentences", len(sentences)),
		slog.Int("chunks", len(chunks)))

	records := make([]*core.ChunkRecord, len(chunks))
	for i, chunk := range chunks {
		records[i] = &core.ChunkRecord{
			ID:         core.ChunkID(stored.ID, i),
			MeetingID:  stored.ID,
			ProjectID:  assignment.ProjectID,
			ChunkIndex: i,
			Text:       chunk.Text,
			StartTime:  chunk.StartTime,
			EndTime:    chunk.EndTime,
			Speakers:   chunk.Speakers.Sorted(),
			CreatedAt:  time.Now().UTC(),
		}
	}

	vectors, err := p.embedRecords(ctx, records)
	if err != nil {
		return nil, err
	}

	// Replace any chunks from a previous ingest before writing the new set,
	// so a shrunk transcript leaves no stale tail.
	if err := p.chunkRepository.DeleteChunksByMeeting(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to clear previous chunks: %w", err)
	}
	if _, err := p.chunkRepository.AddChunks(ctx, records...); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	entries := make([]core.VectorEntry, len(records))
	for i, record := range records {
		entries[i] = core.VectorEntry{
			ID:        record.ID,
			Vector:    vectors[i],
			MeetingID: record.MeetingID,
			ProjectID: record.ProjectID,
		}
	}
	if err := p.index.Insert(ctx, entries...); err != nil {
		return nil, fmt.Errorf("failed to index chunk vectors: %w", err)
	}

	if err := p.meetingRepository.MarkProcessed(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("failed to mark meeting processed: %w", err)
	}

	return &Result{
		MeetingID:  stored.ID,
		Assignment: assignment,
		ChunkCount: len(records),
	}, nil
}

// assignProject matches the meeting against the current project profiles
// and records the resulting assignment. A transcript that matches nothing
// leaves the meeting unassigned, which is not an error.
func (p *Pipeline) assignProject(ctx context.Context, meeting *core.Meeting, sentences []core.Sentence) (core.Assignment, error) {
	profiles, err := matching.LoadProfiles(ctx, p.projectRepository)
	if err != nil {
		return core.Assignment{}, err
	}
	if len(profiles) == 0 {
		return core.Assignment{}, nil
	}

	texts := make([]string, len(sentences))
	for i, sentence := range sentences {
		texts[i] = sentence.Text
	}
	transcript := strings.Join(texts, " ")

	matcher := matching.NewMatcher(profiles, matching.WithLogger(p.logger))
	match := matcher.MatchWithHistory(meeting, transcript)
	assignment := matching.DetermineAssignment(match)

	if assignment.ProjectID != "" {
		if err := p.meetingRepository.AssignProject(ctx, meeting.ID, assignment.ProjectID, assignment.NeedsReview); err != nil {
			return core.Assignment{}, fmt.Errorf("failed to assign project: %w", err)
		}
		p.logger.Info("assigned meeting to project",
			slog.String("meeting_id", meeting.ID),
			slog.String("project_id", assignment.ProjectID),
			slog.Float64("confidence", assignment.Confidence),
			slog.Bool("needs_review", assignment.NeedsReview))
	} else {
		p.logger.Info("no project matched meeting", slog.String("meeting_id", meeting.ID))
	}
	return assignment, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
