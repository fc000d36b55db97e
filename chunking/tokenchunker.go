// Copyright 2025 Alleato Group
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunking

import (
	"fmt"

	"github.com/MeganHarrison/fireflies-transcripts/core"
)

// Method selects the token-budgeted chunking strategy.
type Method string

const (
	// MethodSentence accumulates whole sentences up to the token budget,
	// carrying a bounded overlap suffix into the next chunk.
	MethodSentence Method = "sentence"

	// MethodSemantic additionally closes chunks at topic boundaries
	// (speaker change after a long pause); topic boundaries start fresh
	// with no overlap.
	MethodSemantic Method = "semantic"

	// MethodSlidingWindow builds fixed-budget windows at a stride derived
	// from the overlap, re-reading sentences between windows.
	MethodSlidingWindow Method = "sliding_window"
)

// topicPauseThreshold is the pause (in transcript time units) that, combined
// with a speaker change, marks a topic boundary for MethodSemantic.
const topicPauseThreshold = 5.0

// speakerCloseFraction of the token budget after which MethodSentence closes
// early at a speaker change, when PreserveSpeakerBoundaries is set.
const speakerCloseFraction = 0.8

// Config parameterizes a TokenChunker.
type Config struct {
	// ChunkSizeTokens is the target upper bound per chunk. A single
	// sentence whose own estimate exceeds it still forms one chunk.
	ChunkSizeTokens int

	// OverlapTokens bounds the trailing content repeated at the start of
	// the next chunk. Must satisfy 0 <= OverlapTokens < ChunkSizeTokens.
	OverlapTokens int

	// Method selects the strategy.
	Method Method

	// PreserveSpeakerBoundaries makes MethodSentence close early at
	// speaker changes once a chunk is mostly full.
	PreserveSpeakerBoundaries bool
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.ChunkSizeTokens <= 0 {
		return fmt.Errorf("%w: ChunkSizeTokens must be positive", ErrInvalidConfig)
	}
	if c.OverlapTokens < 0 || c.OverlapTokens >= c.ChunkSizeTokens {
		return fmt.Errorf("%w: OverlapTokens must satisfy 0 <= overlap < chunk size", ErrInvalidConfig)
	}
	switch c.Method {
	case MethodSentence, MethodSemantic, MethodSlidingWindow:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, c.Method)
	}
	return nil
}

// TokenChunker is the token-budgeted Chunker.
type TokenChunker struct {
	config  Config
	counter TokenCounter
}

var _ Chunker = (*TokenChunker)(nil)

// TokenChunkerOption is a functional option for NewTokenChunker.
type TokenChunkerOption func(*TokenChunker)

// WithTokenCounter substitutes a real tokenizer for the default length/4
// estimate. The same counter is used for size and overlap checks.
func WithTokenCounter(counter TokenCounter) TokenChunkerOption {
	return func(t *TokenChunker) {
		t.counter = counter
	}
}

// NewTokenChunker creates a TokenChunker after validating config.
func NewTokenChunker(config Config, opts ...TokenChunkerOption) (*TokenChunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chunker := &TokenChunker{
		config:  config,
		counter: EstimateCounter{},
	}
	for _, opt := range opts {
		opt(chunker)
	}
	return chunker, nil
}

// Chunk splits sentences per the configured method. Empty input yields an
// empty sequence.
func (t *TokenChunker) Chunk(sentences []core.Sentence) []core.Chunk {
	if len(sentences) == 0 {
		return nil
	}

	switch t.config.Method {
	case MethodSemantic:
		return t.semantic(sentences)
	case MethodSlidingWindow:
		return t.slidingWindow(sentences)
	default:
		return t.sentenceBased(sentences)
	}
}

func (t *TokenChunker) sentenceBased(sentences []core.Sentence) []core.Chunk {
	var chunks []core.Chunk
	var builder chunkBuilder
	speakerBudget := speakerCloseFraction * float64(t.config.ChunkSizeTokens)

	for _, sentence := range sentences {
		tokens := t.counter.Count(sentence.Text)

		if !builder.empty() && builder.tokens+tokens > t.config.ChunkSizeTokens {
			chunks = append(chunks, builder.build())
			t.seedOverlap(&builder)
			t.trimOverlapFor(&builder, tokens)
		} else if t.config.PreserveSpeakerBoundaries &&
			!builder.empty() &&
			builder.lastSpeaker() != sentence.SpeakerID &&
			float64(builder.tokens) > speakerBudget {
			// Early close at a speaker boundary; no overlap across speakers.
			chunks = append(chunks, builder.build())
			builder.reset()
		}

		builder.add(sentence, tokens)
	}

	if !builder.empty() {
		chunks = append(chunks, builder.build())
	}
	return chunks
}

func (t *TokenChunker) semantic(sentences []core.Sentence) []core.Chunk {
	var chunks []core.Chunk
	var builder chunkBuilder
	lastSpeaker := ""

	for i, sentence := range sentences {
		tokens := t.counter.Count(sentence.Text)

		speakerChanged := lastSpeaker != "" && lastSpeaker != sentence.SpeakerID
		longPause := i > 0 && sentence.StartTime-sentences[i-1].EndTime > topicPauseThreshold
		topicBoundary := speakerChanged && longPause

		if !builder.empty() && (topicBoundary || builder.tokens+tokens > t.config.ChunkSizeTokens) {
			chunks = append(chunks, builder.build())

			// Topic boundaries start fresh; only size closes carry overlap.
			if topicBoundary {
				builder.reset()
			} else {
				t.seedOverlap(&builder)
				t.trimOverlapFor(&builder, tokens)
			}
		}

		builder.add(sentence, tokens)
		lastSpeaker = sentence.SpeakerID
	}

	if !builder.empty() {
		chunks = append(chunks, builder.build())
	}
	return chunks
}

func (t *TokenChunker) slidingWindow(sentences []core.Sentence) []core.Chunk {
	var chunks []core.Chunk
	stepTokens := t.config.ChunkSizeTokens - t.config.OverlapTokens

	start := 0
	for start < len(sentences) {
		var window chunkBuilder
		idx := start

		for idx < len(sentences) {
			tokens := t.counter.Count(sentences[idx].Text)
			if !window.empty() && window.tokens+tokens > t.config.ChunkSizeTokens {
				break
			}
			window.add(sentences[idx], tokens)
			idx++
		}

		chunks = append(chunks, window.build())
		if idx >= len(sentences) {
			break
		}

		// Stride proportional to how much of the window is not overlap.
		stride := len(window.sentences) * stepTokens / t.config.ChunkSizeTokens
		if stride < 1 {
			stride = 1
		}
		start += stride
	}

	return chunks
}

// seedOverlap rebuilds the builder with a token-bounded suffix of its own
// sentences: walking backward from the end, a sentence is carried only if it
// fits the remaining overlap budget whole. The carried content therefore
// never exceeds OverlapTokens.
func (t *TokenChunker) seedOverlap(builder *chunkBuilder) {
	if t.config.OverlapTokens <= 0 {
		builder.reset()
		return
	}

	previous := builder.sentences
	var carried []core.Sentence
	tokens := 0

	for i := len(previous) - 1; i >= 0; i-- {
		count := t.counter.Count(previous[i].Text)
		if tokens+count > t.config.OverlapTokens {
			break
		}
		carried = append([]core.Sentence{previous[i]}, carried...)
		tokens += count
	}

	builder.sentences = carried
	builder.tokens = tokens
}

// trimOverlapFor drops carried sentences from the front until the incoming
// sentence fits the chunk budget, so overlap never pushes a chunk past it.
func (t *TokenChunker) trimOverlapFor(builder *chunkBuilder, tokens int) {
	for len(builder.sentences) > 0 && builder.tokens+tokens > t.config.ChunkSizeTokens {
		builder.tokens -= t.counter.Count(builder.sentences[0].Text)
		builder.sentences = builder.sentences[1:]
	}
}
