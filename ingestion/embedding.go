package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// embedBatchSize bounds how many chunk texts go to the embedder per call.
const embedBatchSize = 16

// embedRecords generates embeddings for all chunk records, batching the
// texts and running the batches concurrently on the worker pool. The
// returned vectors are positionally aligned with the records.
func (p *Pipeline) embedRecords(ctx context.Context, records []*core.ChunkRecord) ([][]float32, error) {
	vectors := make([][]float32, len(records))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(records); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(records) {
			end = len(records)
		}

		texts := make([]string, end-start)
		for i, record := range records[start:end] {
			texts[i] = record.Text
		}
		offset := start

		wg.Add(1)
		submitErr := p.embeddingPool.Submit(func() {
			defer wg.Done()

			batch, err := p.embedder.EmbedTexts(ctx, texts)
			if err == nil && len(batch) != len(texts) {
				err = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(batch))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for i, vector := range batch {
				vectors[offset+i] = vector
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", firstErr)
	}
	return vectors, nil
}
