package chunking

import (
	"strings"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// SummaryChunk builds a single chunk standing in for the whole transcript,
// used as an additional coarse retrieval target alongside the regular
// chunks. If summary is empty, a quick extract of the opening and closing
// sentences is used instead.
func SummaryChunk(sentences []core.Sentence, summary string) core.Chunk {
	speakers := core.NewSpeakerSet()
	for _, sentence := range sentences {
		if sentence.SpeakerName != "" {
			speakers.Add(sentence.SpeakerName)
		}
	}

	text := summary
	if text == "" {
		text = quickSummary(sentences)
	}

	chunk := core.Chunk{
		Text:          text,
		Speakers:      speakers,
		SentenceCount: len(sentences),
		TokenCount:    EstimateCounter{}.Count(text),
	}
	if len(sentences) > 0 {
		chunk.StartTime = sentences[0].StartTime
		chunk.EndTime = sentences[len(sentences)-1].EndTime
	}
	return chunk
}

// quickSummary stitches the first and last few sentences together as a crude
// stand-in when no real summary is available.
func quickSummary(sentences []core.Sentence) string {
	if len(sentences) == 0 {
		return "Empty transcript"
	}

	head := sentences
	if len(head) > 3 {
		head = head[:3]
	}
	tail := sentences
	if len(tail) > 2 {
		tail = tail[len(tail)-2:]
	}

	var headTexts, tailTexts []string
	for _, sentence := range head {
		headTexts = append(headTexts, sentence.Text)
	}
	for _, sentence := range tail {
		tailTexts = append(tailTexts, sentence.Text)
	}

	return "Meeting start: " + strings.Join(headTexts, " ") +
		" ... Meeting end: " + strings.Join(tailTexts, " ")
}
