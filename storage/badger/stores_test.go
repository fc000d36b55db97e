package badger

import (
	"context"
	"testing"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	return stores
}

func TestMeetingRepository_PutGet(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	meeting := &core.Meeting{
		ID:           "mtg-1",
		Title:        "Acme Corp Weekly Sync",
		Date:         time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		Participants: []string{"alice@acme.com", "bob@acme.com"},
	}

	stored, err := stores.Meetings.PutMeeting(ctx, meeting)
	require.NoError(t, err)
	assert.False(t, stored.InsertedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())

	got, err := stores.Meetings.GetMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp Weekly Sync", got.Title)
	assert.Equal(t, meeting.Participants, got.Participants)
	assert.True(t, meeting.Date.Equal(got.Date))
}

func TestMeetingRepository_GetMissing(t *testing.T) {
	stores := newTestStores(t)

	_, err := stores.Meetings.GetMeeting(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMeetingRepository_PutPreservesInsertedAt(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	meeting := &core.Meeting{ID: "mtg-1", Title: "Sync", Date: time.Now().UTC()}
	first, err := stores.Meetings.PutMeeting(ctx, meeting)
	require.NoError(t, err)
	insertedAt := first.InsertedAt

	meeting.Title = "Sync (renamed)"
	second, err := stores.Meetings.PutMeeting(ctx, meeting)
	require.NoError(t, err)
	assert.True(t, insertedAt.Equal(second.InsertedAt))

	got, err := stores.Meetings.GetMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, "Sync (renamed)", got.Title)
}

func TestMeetingRepository_AssignProjectAndMarkProcessed(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Meetings.PutMeeting(ctx, &core.Meeting{
		ID: "mtg-1", Title: "Sync", Date: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, stores.Meetings.AssignProject(ctx, "mtg-1", "proj-7", true))
	require.NoError(t, stores.Meetings.MarkProcessed(ctx, "mtg-1"))

	got, err := stores.Meetings.GetMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Equal(t, "proj-7", got.ProjectID)
	assert.True(t, got.NeedsReview)
	assert.True(t, got.Processed)

	err = stores.Meetings.AssignProject(ctx, "missing", "proj-7", false)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMeetingRepository_DateRangeAndRecent(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"mtg-a", "mtg-b", "mtg-c"} {
		_, err := stores.Meetings.PutMeeting(ctx, &core.Meeting{
			ID:    id,
			Title: "Meeting " + id,
			Date:  base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	inRange, err := stores.Meetings.GetMeetingsByDateRange(ctx, base, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	assert.Equal(t, "mtg-a", inRange[0].ID)
	assert.Equal(t, "mtg-b", inRange[1].ID)

	recent, err := stores.Meetings.GetRecentMeetings(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "mtg-c", recent[0].ID)
	assert.Equal(t, "mtg-b", recent[1].ID)

	_, err = stores.Meetings.GetRecentMeetings(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestChunkRepository_AddGetByMeeting(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	records := []*core.ChunkRecord{
		{
			ID:         core.ChunkID("mtg-1", 0),
			MeetingID:  "mtg-1",
			ChunkIndex: 0,
			Text:       "Alice: Opening remarks.",
			Speakers:   []string{"Alice"},
		},
		{
			ID:         core.ChunkID("mtg-1", 1),
			MeetingID:  "mtg-1",
			ChunkIndex: 1,
			Text:       "Bob: Budget discussion.",
			Speakers:   []string{"Bob"},
		},
	}

	stored, err := stores.Chunks.AddChunks(ctx, records...)
	require.NoError(t, err)
	for _, record := range stored {
		assert.False(t, record.CreatedAt.IsZero())
	}

	got, err := stores.Chunks.GetChunk(ctx, "mtg-1_chunk_1")
	require.NoError(t, err)
	assert.Equal(t, "Bob: Budget discussion.", got.Text)

	byMeeting, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	require.Len(t, byMeeting, 2)
	assert.Equal(t, 0, byMeeting[0].ChunkIndex)
	assert.Equal(t, 1, byMeeting[1].ChunkIndex)
}

func TestChunkRepository_ReAddConverges(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	record := &core.ChunkRecord{
		ID:         core.ChunkID("mtg-1", 0),
		MeetingID:  "mtg-1",
		ChunkIndex: 0,
		Text:       "First version.",
	}
	_, err := stores.Chunks.AddChunks(ctx, record)
	require.NoError(t, err)

	record.Text = "Second version."
	_, err = stores.Chunks.AddChunks(ctx, record)
	require.NoError(t, err)

	byMeeting, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	require.Len(t, byMeeting, 1)
	assert.Equal(t, "Second version.", byMeeting[0].Text)
}

func TestChunkRepository_GetChunkPayloads(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	date := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	_, err := stores.Projects.PutProject(ctx, &core.Project{
		ID: "proj-7", Title: "Website Redesign",
	})
	require.NoError(t, err)
	_, err = stores.Meetings.PutMeeting(ctx, &core.Meeting{
		ID: "mtg-1", Title: "Design Review", Date: date, ProjectID: "proj-7",
	})
	require.NoError(t, err)
	_, err = stores.Chunks.AddChunks(ctx, &core.ChunkRecord{
		ID:         core.ChunkID("mtg-1", 0),
		MeetingID:  "mtg-1",
		ProjectID:  "proj-7",
		ChunkIndex: 0,
		Text:       "Carol: The mockups are ready.",
	})
	require.NoError(t, err)

	payloads, err := stores.Chunks.GetChunkPayloads(ctx, "mtg-1_chunk_0", "mtg-1_chunk_99")
	require.NoError(t, err)
	require.Len(t, payloads, 1, "unresolvable IDs are dropped, not errors")

	payload := payloads[0]
	assert.Equal(t, "Carol: The mockups are ready.", payload.Record.Text)
	assert.Equal(t, "Design Review", payload.MeetingTitle)
	assert.True(t, date.Equal(payload.MeetingDate))
	assert.Equal(t, "Website Redesign", payload.ProjectTitle)
}

func TestChunkRepository_DeleteByMeeting(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := stores.Chunks.AddChunks(ctx, &core.ChunkRecord{
			ID:         core.ChunkID("mtg-1", i),
			MeetingID:  "mtg-1",
			ChunkIndex: i,
			Text:       "chunk text",
		})
		require.NoError(t, err)
	}

	require.NoError(t, stores.Chunks.DeleteChunksByMeeting(ctx, "mtg-1"))

	byMeeting, err := stores.Chunks.GetChunksByMeeting(ctx, "mtg-1")
	require.NoError(t, err)
	assert.Empty(t, byMeeting)

	_, err = stores.Chunks.GetChunk(ctx, "mtg-1_chunk_0")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProjectRepository_ListExcludesDeleted(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Projects.PutProject(ctx, &core.Project{ID: "proj-1", Title: "Active"})
	require.NoError(t, err)
	_, err = stores.Projects.PutProject(ctx, &core.Project{ID: "proj-2", Title: "Gone", Deleted: true})
	require.NoError(t, err)

	projects, err := stores.Projects.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "proj-1", projects[0].ID)
}

func TestVectorIndex_QueryOrderingAndFilter(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	entries := []core.VectorEntry{
		{ID: "a", Vector: []float32{1, 0, 0}, MeetingID: "mtg-1", ProjectID: "proj-1"},
		{ID: "b", Vector: []float32{0.9, 0.1, 0}, MeetingID: "mtg-1", ProjectID: "proj-1"},
		{ID: "c", Vector: []float32{0, 1, 0}, MeetingID: "mtg-2", ProjectID: "proj-2"},
	}
	require.NoError(t, stores.Index.Insert(ctx, entries...))

	matches, err := stores.Index.Query(ctx, []float32{1, 0, 0}, storage.VectorQuery{TopK: 2})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "b", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)

	filtered, err := stores.Index.Query(ctx, []float32{1, 0, 0}, storage.VectorQuery{
		TopK:      10,
		ProjectID: "proj-2",
	})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "c", filtered[0].ID)

	_, err = stores.Index.Query(ctx, nil, storage.VectorQuery{TopK: 5})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
