// Package ingestion provides pipeline orchestration for processing meeting
// transcripts.
//
// The Pipeline type manages the ingestion workflow for a transcript:
//   - Storing the meeting record
//   - Matching the meeting to a project and recording the assignment
//   - Chunking the transcript sentences
//   - Generating chunk embeddings on a worker pool
//   - Persisting chunk records and their vectors
//
// Chunking runs sequentially so chunk indexes stay deterministic, while
// embedding batches run concurrently to maximize throughput. Ingesting the
// same meeting again replaces its chunks, so the operation converges.
package ingestion
