package chunking

import (
	"strings"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Chunker splits an ordered sentence stream into an ordered chunk sequence.
// Implementations are pure: no I/O, deterministic for identical input and
// configuration, and empty input yields an empty result.
type Chunker interface {
	Chunk(sentences []core.Sentence) []core.Chunk
}

// chunkBuilder accumulates the sentences of one in-progress chunk. A fresh
// builder is used per chunk; no state survives across Chunk calls.
type chunkBuilder struct {
	sentences []core.Sentence
	tokens    int
}

func (b *chunkBuilder) add(sentence core.Sentence, tokens int) {
	b.sentences = append(b.sentences, sentence)
	b.tokens += tokens
}

func (b *chunkBuilder) empty() bool {
	return len(b.sentences) == 0
}

// lastSpeaker returns the speaker ID of the most recently added sentence.
func (b *chunkBuilder) lastSpeaker() string {
	if len(b.sentences) == 0 {
		return ""
	}
	return b.sentences[len(b.sentences)-1].SpeakerID
}

func (b *chunkBuilder) reset() {
	b.sentences = nil
	b.tokens = 0
}

// build renders the accumulated sentences into a Chunk. The chunk text is
// one speaker-attributed line per sentence.
func (b *chunkBuilder) build() core.Chunk {
	return renderChunk(b.sentences, b.tokens)
}

func renderChunk(sentences []core.Sentence, tokens int) core.Chunk {
	var sb strings.Builder
	speakers := core.NewSpeakerSet()

	for i, sentence := range sentences {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if sentence.SpeakerName != "" {
			sb.WriteString(sentence.SpeakerName)
			sb.WriteString(": ")
			speakers.Add(sentence.SpeakerName)
		}
		sb.WriteString(sentence.Text)
	}

	return core.Chunk{
		Text:          sb.String(),
		StartTime:     sentences[0].StartTime,
		EndTime:       sentences[len(sentences)-1].EndTime,
		Speakers:      speakers,
		SentenceCount: len(sentences),
		TokenCount:    tokens,
	}
}
