package chunking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// CharacterConfig parameterizes the legacy character-budgeted chunker.
type CharacterConfig struct {
	// MaxChunkChars is the character budget per chunk. Default 1000.
	MaxChunkChars int

	// OverlapChars bounds the text suffix repeated at the start of the
	// next chunk. Default 200.
	OverlapChars int

	// MaxTimeGap closes a chunk when the silence before a sentence
	// exceeds it, in transcript time units. Default 30.
	MaxTimeGap float64
}

const (
	defaultMaxChunkChars = 1000
	defaultOverlapChars  = 200
	defaultMaxTimeGap    = 30.0

	// A speaker turn longer than this ending right before a speaker
	// change counts as a natural break.
	monologueThreshold = 60.0
)

// sentenceStartPattern finds a sentence boundary inside an overlap suffix,
// so overlap starts on a clean sentence when possible.
var sentenceStartPattern = regexp.MustCompile(`\.\s+[A-Z]`)

// CharacterChunker is the older character-budgeted Chunker. Chunks close on
// the character budget, on long silences, and at natural conversational
// breaks. Kept selectable for corpora originally chunked with it.
type CharacterChunker struct {
	config CharacterConfig
}

var _ Chunker = (*CharacterChunker)(nil)

// NewCharacterChunker creates a CharacterChunker, filling zero config fields
// with defaults.
func NewCharacterChunker(config CharacterConfig) (*CharacterChunker, error) {
	if config.MaxChunkChars == 0 {
		config.MaxChunkChars = defaultMaxChunkChars
	}
	if config.OverlapChars == 0 {
		config.OverlapChars = defaultOverlapChars
	}
	if config.MaxTimeGap == 0 {
		config.MaxTimeGap = defaultMaxTimeGap
	}

	if config.MaxChunkChars < 0 || config.OverlapChars < 0 || config.MaxTimeGap < 0 {
		return nil, fmt.Errorf("%w: negative character chunker parameter", ErrInvalidConfig)
	}
	if config.OverlapChars >= config.MaxChunkChars {
		return nil, fmt.Errorf("%w: OverlapChars must be below MaxChunkChars", ErrInvalidConfig)
	}

	return &CharacterChunker{config: config}, nil
}

// characterChunk accumulates one in-progress character-budgeted chunk. Its
// text may start with overlap carried from the previous chunk; timing and
// counts reflect only the sentences actually added.
type characterChunk struct {
	text          string
	startTime     float64
	endTime       float64
	started       bool
	speakers      core.SpeakerSet
	sentenceCount int
}

func (c *characterChunk) add(sentence core.Sentence) {
	if c.text != "" {
		c.text += " "
	}
	c.text += sentence.Text

	if sentence.SpeakerName != "" {
		c.speakers.Add(sentence.SpeakerName)
	}
	c.sentenceCount++

	if !c.started {
		c.startTime = sentence.StartTime
		c.started = true
	}
	c.endTime = sentence.EndTime
}

func (c *characterChunk) finish() core.Chunk {
	return core.Chunk{
		Text:          c.text,
		StartTime:     c.startTime,
		EndTime:       c.endTime,
		Speakers:      c.speakers,
		SentenceCount: c.sentenceCount,
		TokenCount:    EstimateCounter{}.Count(c.text),
	}
}

// Chunk splits sentences into character-bounded chunks.
func (c *CharacterChunker) Chunk(sentences []core.Sentence) []core.Chunk {
	if len(sentences) == 0 {
		return nil
	}

	var chunks []core.Chunk
	current := &characterChunk{}
	lastEndTime := 0.0

	for i, sentence := range sentences {
		timeGap := sentence.StartTime - lastEndTime

		shouldClose := current.sentenceCount > 0 &&
			(len(current.text)+len(sentence.Text) > c.config.MaxChunkChars ||
				timeGap > c.config.MaxTimeGap ||
				isNaturalBreak(sentences, i))

		if shouldClose {
			chunks = append(chunks, current.finish())

			overlap := c.overlapText(current.text)
			current = &characterChunk{text: overlap}
		}

		current.add(sentence)
		lastEndTime = sentence.EndTime
	}

	if current.sentenceCount > 0 {
		chunks = append(chunks, current.finish())
	}

	return chunks
}

// overlapText returns the suffix carried into the next chunk, preferring to
// start at a sentence boundary inside the overlap window.
func (c *CharacterChunker) overlapText(text string) string {
	if len(text) <= c.config.OverlapChars {
		return text
	}

	suffix := text[len(text)-c.config.OverlapChars:]

	if loc := sentenceStartPattern.FindStringIndex(suffix); loc != nil && loc[0] > 0 {
		// Skip past the period and whitespace to the sentence start.
		return strings.TrimLeft(suffix[loc[0]+1:], " \t")
	}

	return suffix
}

// isNaturalBreak reports whether the sentence at index ends a conversational
// unit: a question answered by a different speaker, or a long monologue
// ending at a speaker change.
func isNaturalBreak(sentences []core.Sentence, index int) bool {
	if index == 0 || index >= len(sentences)-1 {
		return false
	}

	current := sentences[index]
	previous := sentences[index-1]
	next := sentences[index+1]

	isQuestion := strings.HasSuffix(strings.TrimSpace(current.Text), "?")
	speakerChange := current.SpeakerName != next.SpeakerName

	if isQuestion && speakerChange {
		return true
	}

	if current.SpeakerName == previous.SpeakerName &&
		current.SpeakerName != next.SpeakerName &&
		current.EndTime-previous.StartTime > monologueThreshold {
		return true
	}

	return false
}
