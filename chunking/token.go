package chunking

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates the token count of a text span. Within one chunking
// pass the same counter is used for both target-size and overlap-size checks.
type TokenCounter interface {
	Count(text string) int
}

// EstimateCounter approximates tokens as ceil(len/4). Cheap, deterministic,
// and close enough for budget checks on English transcripts.
type EstimateCounter struct{}

// Count returns ceil(len(text)/4).
func (EstimateCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

// TiktokenCounter counts tokens with a real BPE tokenizer.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a counter using the tokenizer of the named
// model, e.g. "gpt-3.5-turbo" or "text-embedding-3-small".
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the exact token count of text under the model's encoding.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}
