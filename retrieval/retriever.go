package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/ai"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// oversampleFactor controls how many vector matches are fetched per
// requested result, so reranking has candidates to promote.
const oversampleFactor = 2

// Retriever answers semantic queries over ingested transcript chunks.
type Retriever struct {
	chunkRepository storage.ChunkRepository
	index           storage.VectorIndex
	embedder        ai.Embedder
	logger          *slog.Logger
	now             func() time.Time
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithClock overrides the time source used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(r *Retriever) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	chunkRepository storage.ChunkRepository,
	index storage.VectorIndex,
	provider ai.AIProvider,
	opts ...Option,
) (*Retriever, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		chunkRepository: chunkRepository,
		index:           index,
		embedder:        provider.Embedder(),
		logger:          slog.Default(),
		now:             time.Now,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve searches for chunks relevant to the query, optionally restricted
// to one project, and returns up to topK results ranked by adjusted score.
// Failures in the embedding, index, or storage stages are logged and yield
// an empty result rather than an error, so a degraded dependency never
// breaks the caller's conversation flow.
func (r *Retriever) Retrieve(ctx context.Context, query, projectFilter string, topK int) ([]*core.RetrievedChunk, error) {
	return r.RetrieveWithMonitor(ctx, query, projectFilter, topK, nil)
}

// RetrieveWithMonitor searches like Retrieve with monitoring.
// The monitor receives callbacks at each stage of the retrieval process.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, query, projectFilter string, topK int, monitor RetrievalMonitor) ([]*core.RetrievedChunk, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, ErrInvalidTopK
	}

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	embedding, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return []*core.RetrievedChunk{}, nil
	}
	monitor.AfterEmbedding(len(embedding))

	// Oversample so reranking can reorder beyond the final cut.
	matches, err := r.index.Query(ctx, embedding, storage.VectorQuery{
		TopK:      topK * oversampleFactor,
		ProjectID: projectFilter,
	})
	if err != nil {
		r.logger.Error("error querying vector index", "err", err)
		return []*core.RetrievedChunk{}, nil
	}
	monitor.AfterVectorSearch(matches)

	if len(matches) == 0 {
		monitor.Finish(nil)
		return []*core.RetrievedChunk{}, nil
	}

	scores := make(map[string]float32, len(matches))
	ids := make([]string, 0, len(matches))
	for _, match := range matches {
		scores[match.ID] = match.Score
		ids = append(ids, match.ID)
	}

	payloads, err := r.chunkRepository.GetChunkPayloads(ctx, ids...)
	if err != nil {
		r.logger.Error("error retrieving chunk payloads", "chunkCount", len(ids), "err", err)
		return []*core.RetrievedChunk{}, nil
	}
	monitor.AfterHydration(payloads)

	results := make([]*core.RetrievedChunk, 0, len(payloads))
	for _, payload := range payloads {
		results = append(results, retrievedChunk(payload, scores[payload.Record.ID]))
	}

	results = Rerank(results, query, r.now())
	if len(results) > topK {
		results = results[:topK]
	}
	monitor.Finish(results)

	return results, nil
}

// retrievedChunk converts a hydrated payload into a search result.
func retrievedChunk(payload *core.ChunkPayload, score float32) *core.RetrievedChunk {
	return &core.RetrievedChunk{
		ID:          payload.Record.ID,
		Text:        payload.Record.Text,
		Score:       score,
		MeetingID:   payload.Record.MeetingID,
		ProjectID:   payload.Record.ProjectID,
		MeetingDate: payload.MeetingDate,
		Metadata: map[string]string{
			"meeting_title": payload.MeetingTitle,
			"project_title": payload.ProjectTitle,
		},
	}
}
