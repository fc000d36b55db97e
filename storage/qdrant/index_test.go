package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNew_EnsuresCollection(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	})

	_, err := New(context.Background(), server.URL, "chunks", 384)
	require.NoError(t, err)

	assert.Equal(t, "/collections/chunks", gotPath)
	vectors := gotBody["vectors"].(map[string]any)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestNew_ExistingCollectionIsFine(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := New(context.Background(), server.URL, "chunks", 384)
	assert.NoError(t, err)
}

func TestIndex_InsertAndQuery(t *testing.T) {
	var upsertBody struct {
		Points []struct {
			ID      uint64         `json:"id"`
			Vector  []float32      `json:"vector"`
			Payload map[string]any `json:"payload"`
		} `json:"points"`
	}
	var searchBody map[string]any

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/chunks":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/chunks/points":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&upsertBody))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/collections/chunks/points/search":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&searchBody))
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{
					{
						"score":   0.91,
						"payload": map[string]any{"chunk_id": "mtg-1_chunk_0"},
					},
					{
						// Hits without a chunk_id payload are dropped.
						"score":   0.88,
						"payload": map[string]any{},
					},
				},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	index, err := New(ctx, server.URL, "chunks", 3)
	require.NoError(t, err)

	err = index.Insert(ctx, core.VectorEntry{
		ID:        "mtg-1_chunk_0",
		Vector:    []float32{0.1, 0.2, 0.3},
		MeetingID: "mtg-1",
		ProjectID: "proj-7",
	})
	require.NoError(t, err)

	require.Len(t, upsertBody.Points, 1)
	assert.Equal(t, uint64(core.IDFromContent("mtg-1_chunk_0")), upsertBody.Points[0].ID)
	assert.Equal(t, "mtg-1_chunk_0", upsertBody.Points[0].Payload["chunk_id"])
	assert.Equal(t, "proj-7", upsertBody.Points[0].Payload["project_id"])

	matches, err := index.Query(ctx, []float32{0.1, 0.2, 0.3}, storage.VectorQuery{
		TopK:      5,
		ProjectID: "proj-7",
	})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "mtg-1_chunk_0", matches[0].ID)
	assert.InDelta(t, 0.91, matches[0].Score, 1e-6)

	filter := searchBody["filter"].(map[string]any)
	must := filter["must"].([]any)
	require.Len(t, must, 1)
}

func TestIndex_QueryValidation(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	index, err := New(context.Background(), server.URL, "chunks", 3)
	require.NoError(t, err)

	_, err = index.Query(context.Background(), nil, storage.VectorQuery{TopK: 5})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	_, err = index.Query(context.Background(), []float32{1}, storage.VectorQuery{TopK: 0})
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}
