package transcripts

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/ai/mock"
	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.MeetingRepository())
		assert.NotNil(t, db.ChunkRepository())
		assert.NotNil(t, db.ProjectRepository())
		assert.NotNil(t, db.VectorIndex())
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline()
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create retriever", func(t *testing.T) {
		retriever, err := db.NewRetriever()
		require.NoError(t, err)
		require.NotNil(t, retriever)
	})

	t.Run("can create matcher", func(t *testing.T) {
		matcher, err := db.NewMatcher(context.Background())
		require.NoError(t, err)
		require.NotNil(t, matcher)
	})
}

func TestDatabase_IngestAndRetrieve(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	_, err = db.ProjectRepository().PutProject(ctx, &core.Project{
		ID:          "proj-1",
		Title:       "Warehouse Migration",
		TeamMembers: []string{"Alice"},
	})
	require.NoError(t, err)

	pipeline, err := db.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	meeting := &core.Meeting{
		ID:           "mtg-1",
		Title:        "Warehouse Migration Kickoff",
		Date:         time.Now().UTC(),
		Participants: []string{"Alice"},
	}
	sentences := []core.Sentence{
		{SpeakerName: "Alice", Text: "We start the warehouse migration next week.", StartTime: 0, EndTime: 5},
		{SpeakerName: "Bob", Text: "The inventory export is already running.", StartTime: 5, EndTime: 10},
	}

	result, err := pipeline.Ingest(ctx, meeting, sentences)
	require.NoError(t, err)
	assert.Equal(t, "proj-1", result.Assignment.ProjectID)
	assert.Equal(t, 1, result.ChunkCount)

	retriever, err := db.NewRetriever()
	require.NoError(t, err)

	// The mock embedder is deterministic, so the stored chunk comes back
	// for any query vector.
	results, err := retriever.Retrieve(ctx, "warehouse migration", "", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.ChunkID("mtg-1", 0), results[0].ID)
	assert.Equal(t, "Warehouse Migration Kickoff", results[0].Metadata["meeting_title"])
}
