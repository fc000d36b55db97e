package retrieval

import "github.com/MeganHarrison/fireflies-transcripts/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(query string)
	AfterEmbedding(dimension int)
	AfterVectorSearch(matches []core.VectorMatch)
	AfterHydration(payloads []*core.ChunkPayload)
	Finish(results []*core.RetrievedChunk)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterEmbedding(_ int)                    {}
func (n *noopMonitor) AfterVectorSearch(_ []core.VectorMatch)  {}
func (n *noopMonitor) AfterHydration(_ []*core.ChunkPayload)   {}
func (n *noopMonitor) Finish(_ []*core.RetrievedChunk)         {}
