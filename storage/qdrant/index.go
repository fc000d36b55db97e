package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/core"
	"github.com/MeganHarrison/fireflies-transcripts/storage"
)

// Index implements storage.VectorIndex against a remote Qdrant instance over
// its REST API. Chunk IDs are strings but Qdrant point IDs must be numeric or
// UUID, so points are keyed by a content hash of the chunk ID and the chunk
// ID itself rides in the payload.
type Index struct {
	baseURL    string
	collection string
	client     *http.Client
	logger     *slog.Logger
}

// New creates an Index over the collection at baseURL, creating the
// collection with the given vector dimension if it doesn't exist.
func New(ctx context.Context, baseURL, collection string, dimension int) (*Index, error) {
	x := &Index{
		baseURL:    baseURL,
		collection: collection,
		client:     &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "qdrant"),
	}
	if err := x.ensureCollection(ctx, dimension); err != nil {
		return nil, err
	}
	return x, nil
}

var _ storage.VectorIndex = (*Index)(nil)

// Close is a no-op; the index holds no persistent connections.
func (x *Index) Close() error {
	return nil
}

func (x *Index) ensureCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}

	status, err := x.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s", x.collection), body, nil)
	if err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	// 409 means the collection already exists.
	if status != http.StatusOK && status != http.StatusConflict {
		return fmt.Errorf("ensure collection: unexpected status %d", status)
	}
	return nil
}

type point struct {
	ID      uint64         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Insert upserts entries as Qdrant points.
func (x *Index) Insert(ctx context.Context, entries ...core.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]point, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" || len(entry.Vector) == 0 {
			return storage.ErrInvalidQuery
		}
		points = append(points, point{
			ID:     uint64(core.IDFromContent(entry.ID)),
			Vector: entry.Vector,
			Payload: map[string]any{
				"chunk_id":   entry.ID,
				"meeting_id": entry.MeetingID,
				"project_id": entry.ProjectID,
			},
		})
	}

	status, err := x.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", x.collection),
		map[string]any{"points": points}, nil)
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("upsert points: unexpected status %d", status)
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Query runs a nearest-neighbor search, optionally filtered by project.
func (x *Index) Query(ctx context.Context, vector []float32, query storage.VectorQuery) ([]core.VectorMatch, error) {
	if query.TopK <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        query.TopK,
		"with_payload": true,
	}
	if query.ProjectID != "" {
		body["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key":   "project_id",
					"match": map[string]any{"value": query.ProjectID},
				},
			},
		}
	}

	var resp searchResponse
	status, err := x.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", x.collection), body, &resp)
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search points: unexpected status %d", status)
	}

	matches := make([]core.VectorMatch, 0, len(resp.Result))
	for _, hit := range resp.Result {
		chunkID, _ := hit.Payload["chunk_id"].(string)
		if chunkID == "" {
			x.logger.Warn("dropping search hit without chunk_id payload")
			continue
		}
		matches = append(matches, core.VectorMatch{ID: chunkID, Score: hit.Score})
	}
	return matches, nil
}

// do issues one JSON request and decodes the response into out when non-nil.
func (x *Index) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}
