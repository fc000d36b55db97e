package ingestion

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/ai/mock"
	"github.com/MeganHarrison/fireflies-transcripts/chunking"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
	badgerstore "github.com/MeganHarrison/fireflies-transcripts/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *badgerstore.Stores, *mock.MockProvider) {
	t.Helper()

	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)

	pipeline, err := NewPipeline(stores.Meetings, stores.Chunks, stores.Projects, stores.Index, provider, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, stores, provider
}

func seedRedesignProject(t *testing.T, projects storage.ProjectRepository) {
	t.Helper()
	_, err := projects.PutProject(context.Background(), &core.Project{
		ID:          "proj-redesign",
		Title:       "Acme Corp Redesign",
		TeamMembers: []string{"Alice Johnson"},
	})
	require.NoError(t, err)
}

func transcript(texts ...string) []core.Sentence {
	sentences := make([]core.Sentence, len(texts))
	for i, text := range texts {
		start := float64(i * 5)
		sentences[i] = core.Sentence{
			SpeakerID:   "alice",
			SpeakerName: "Alice",
			Text:        text,
			StartTime:   start,
			EndTime:     start + 4,
		}
	}
	return sentences
}

func TestNewPipeline_Validation(t *testing.T) {
	stores, err := badgerstore.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	provider := mock.NewMockProvider()

	_, err = NewPipeline(nil, stores.Chunks, stores.Projects, stores.Index, provider)
	assert.ErrorIs(t, err, ErrMeetingRepositoryRequired)

	_, err = NewPipeline(stores.Meetings, nil, stores.Projects, stores.Index, provider)
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewPipeline(stores.Meetings, stores.Chunks, nil, stores.Index, provider)
	assert.ErrorIs(t, err, ErrProjectRepositoryRequired)

	_, err = NewPipeline(stores.Meetings, stores.Chunks, stores.Projects, nil, provider)
	assert.ErrorIs(t, err, ErrVectorIndexRequired)

	_, err = NewPipeline(stores.Meetings, stores.Chunks, stores.Projects, stores.Index, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)
}

func TestPipeline_Ingest_AutoAssigns(t *testing.T) {
	pipeline, stores, _ := newTestPipeline(t)
	seedRedesignProject(t, stores.Projects)

	ctx := context.Background()
	meeting := &core.Meeting{
		ID:           "mtg-1",
		Title:        "Acme Corp Redesign Weekly",
		Date:         time.Now().UTC(),
		Participants: []string{"Alice Johnson"},
	}
	sentences := transcript(
		"The redesign milestones are on track.",
		"Alice will follow up on the acme rollout.",
	)

	result, err := pipeline.Ingest(ctx, meeting, sentences)
	require.NoError(t, err)

	assert.Equal(t, "mtg-1", result.MeetingID)
	assert.Equal(t, "proj-redesign", result.Assignment.ProjectID)
	assert.False(t, result.Assignment.NeedsReview)
	assert.GreaterOrEqual(t, result.Assignment.Confidence, 0.7)
	assert.Equal(t, 1, result.ChunkCount)

	stored, err := stores.Meetings.GetMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, "proj-redesign", stored.ProjectID)
	assert.False(t, stored.NeedsReview)
	assert.True(t, stored.Processed)

	chunks, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "proj-redesign", chunks[0].ProjectID)
	assert.Contains(t, chunks[0].Text, "Alice: The redesign milestones are on track.")
	assert.Equal(t, []string{"Alice"}, chunks[0].Speakers)
}

func TestPipeline_Ingest_ReviewBand(t *testing.T) {
	pipeline, stores, _ := newTestPipeline(t)
	seedRedesignProject(t, stores.Projects)

	ctx := context.Background()

	// Partial title overlap plus a team-member hit lands between the
	// review and auto-assign thresholds.
	meeting := &core.Meeting{
		ID:           "mtg-2",
		Title:        "Acme Corp Weekly",
		Date:         time.Now().UTC(),
		Participants: []string{"Alice Johnson"},
	}
	result, err := pipeline.Ingest(ctx, meeting, transcript("Nothing on topic today."))
	require.NoError(t, err)

	assert.Equal(t, "proj-redesign", result.Assignment.ProjectID)
	assert.True(t, result.Assignment.NeedsReview)

	stored, err := stores.Meetings.GetMeeting(ctx, "mtg-2")
	require.NoError(t, err)
	assert.True(t, stored.NeedsReview)
}

func TestPipeline_Ingest_NoMatch(t *testing.T) {
	pipeline, stores, _ := newTestPipeline(t)
	seedRedesignProject(t, stores.Projects)

	ctx := context.Background()
	meeting := &core.Meeting{
		ID:           "mtg-3",
		Title:        "Lunch and Learn",
		Date:         time.Now().UTC(),
		Participants: []string{"Carol"},
	}
	result, err := pipeline.Ingest(ctx, meeting, transcript("General announcements only."))
	require.NoError(t, err)

	assert.Empty(t, result.Assignment.ProjectID)

	stored, err := stores.Meetings.GetMeeting(ctx, "mtg-3")
	require.NoError(t, err)
	assert.Empty(t, stored.ProjectID)
	assert.True(t, stored.Processed)

	chunks, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-3")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Empty(t, chunks[0].ProjectID)
}

func TestPipeline_Ingest_NoSentences(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	meeting := &core.Meeting{ID: "mtg-4", Title: "Empty"}
	_, err := pipeline.Ingest(context.Background(), meeting, nil)
	assert.ErrorIs(t, err, ErrNoSentences)
}

func TestPipeline_Ingest_Reconverges(t *testing.T) {
	chunker, err := chunking.NewTokenChunker(chunking.Config{
		Method:          chunking.MethodSentence,
		ChunkSizeTokens: 10,
	})
	require.NoError(t, err)

	pipeline, stores, _ := newTestPipeline(t, WithChunker(chunker))

	ctx := context.Background()
	meeting := &core.Meeting{ID: "mtg-5", Title: "Planning", Date: time.Now().UTC()}

	// Each 40-char sentence fills the 10-token budget exactly, so sentence
	// count equals chunk count.
	long := strings.Repeat("word", 10)
	_, err = pipeline.Ingest(ctx, meeting, transcript(long, long, long))
	require.NoError(t, err)

	chunks, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-5")
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Re-ingesting with a shorter transcript leaves no stale tail.
	result, err := pipeline.Ingest(ctx, meeting, transcript(long))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunkCount)

	chunks, err = stores.Chunks.GetChunksByMeeting(ctx, "mtg-5")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestPipeline_Ingest_EmbeddingFailure(t *testing.T) {
	pipeline, stores, provider := newTestPipeline(t)
	provider.GetMockEmbedder().WithEmbedTextsFunc(
		func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, assert.AnError
		})

	ctx := context.Background()
	meeting := &core.Meeting{ID: "mtg-6", Title: "Doomed", Date: time.Now().UTC()}
	_, err := pipeline.Ingest(ctx, meeting, transcript("Some content here."))
	require.Error(t, err)

	// Embedding runs before any chunk write, so storage stays clean.
	chunks, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-6")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
