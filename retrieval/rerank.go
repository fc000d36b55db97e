package retrieval

import (
	"sort"
	"strings"
	"time"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Reranking multipliers. Fresh meetings outrank stale ones at equal
// similarity, and chunks that literally contain the query's terms get a
// small additive edge per distinct term.
const (
	weekBoost  = 1.2
	monthBoost = 1.1

	termBoost = 0.1
)

// Rerank adjusts the raw similarity scores of retrieved chunks by meeting
// recency and lexical overlap with the query, then sorts by adjusted score
// descending. The sort is stable, so equally scored chunks keep their
// incoming order. The input slice is modified in place and returned.
func Rerank(chunks []*core.RetrievedChunk, query string, now time.Time) []*core.RetrievedChunk {
	terms := queryTerms(query)

	for _, chunk := range chunks {
		multiplier := recencyMultiplier(chunk.MeetingDate, now)
		matched := matchedTerms(chunk.Text, terms)
		chunk.Score = chunk.Score * multiplier * (1 + termBoost*float32(matched))
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
	return chunks
}

// recencyMultiplier boosts chunks from meetings less than a week old, and
// more mildly those less than a month old. A zero meeting date gets no
// boost.
func recencyMultiplier(meetingDate, now time.Time) float32 {
	if meetingDate.IsZero() {
		return 1.0
	}
	age := now.Sub(meetingDate)
	switch {
	case age < 7*24*time.Hour:
		return weekBoost
	case age < 30*24*time.Hour:
		return monthBoost
	default:
		return 1.0
	}
}

// queryTerms lowercases the query and returns its distinct words.
func queryTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		terms = append(terms, word)
	}
	return terms
}

// matchedTerms counts how many distinct query terms occur in the chunk text.
func matchedTerms(text string, terms []string) int {
	if len(terms) == 0 {
		return 0
	}
	lowered := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched++
		}
	}
	return matched
}
