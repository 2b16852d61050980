// Package subword measures dialog utterances in BPE subword tokens, next to the
// space-delimited tokens counted by package ngram.
package subword

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE vocabulary used when none is configured.
const DefaultEncoding = "cl100k_base"

// Encoder is the part of *tiktoken.Tiktoken used here.
type Encoder interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
}

type Summary struct {
	Encoding   string `json:"encoding" yaml:"encoding"`
	Utterances int    `json:"utterances" yaml:"utterances"`
	Subwords   int    `json:"subwords" yaml:"subwords"`
}

type Counter struct {
	encoding string
	encoder  Encoder
}

// NewCounter loads the named tiktoken encoding. The BPE ranks are fetched on
// first use and cached by tiktoken-go (see TIKTOKEN_CACHE_DIR).
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiktoken encoding %s: %w", encoding, err)
	}
	return NewCounterWithEncoder(encoding, tke), nil
}

func NewCounterWithEncoder(encoding string, enc Encoder) *Counter {
	return &Counter{encoding: encoding, encoder: enc}
}

// Count returns the number of subword tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoder.Encode(text, nil, nil))
}

// Summarize counts the subword tokens of every utterance, grouped by conversation.
func (c *Counter) Summarize(conversations [][]string) Summary {
	s := Summary{Encoding: c.encoding}
	for _, conv := range conversations {
		for _, text := range conv {
			s.Utterances++
			s.Subwords += c.Count(text)
		}
	}
	return s
}
