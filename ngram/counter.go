// Package ngram builds unigram and bigram occurrence tables over dialog utterances.
//
// Each utterance is stripped of punctuation, optionally lower-cased, split on
// spaces and prefixed with SentenceStart. Counts accumulate across every
// utterance handed to the same Counter; bigrams never span two utterances.
package ngram

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Options struct {
	// CaseInsensitive lower-cases utterances before tokenizing, so "Hi" and
	// "hi" share one key.
	CaseInsensitive bool
}

// WordCount is a unigram entry.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// PairCount is a bigram entry.
type PairCount struct {
	Prev  string `json:"prev" yaml:"prev"`
	Next  string `json:"next" yaml:"next"`
	Count int    `json:"count" yaml:"count"`
}

// Counter accumulates the tables. It is not safe for concurrent use.
type Counter struct {
	opts       Options
	lower      cases.Caser
	unigrams   map[string]int
	bigrams    map[string]map[string]int
	utterances int
	tokens     int
}

func NewCounter(opts Options) *Counter {
	return &Counter{
		opts:     opts,
		lower:    cases.Lower(language.Und),
		unigrams: make(map[string]int),
		bigrams:  make(map[string]map[string]int),
	}
}

func (c *Counter) Options() Options {
	return c.opts
}

// Normalize applies the filter and case folding that AddUtterance uses.
func (c *Counter) Normalize(text string) string {
	text = FilterMessage(text)
	if c.opts.CaseInsensitive {
		text = c.lower.String(text)
	}
	return text
}

// AddUtterance counts one utterance and returns the tokens it produced.
func (c *Counter) AddUtterance(text string) []string {
	tokens := Tokenize(c.Normalize(text))

	c.unigrams[tokens[0]]++
	for i := 1; i < len(tokens); i++ {
		row, ok := c.bigrams[tokens[i-1]]
		if !ok {
			row = make(map[string]int)
			c.bigrams[tokens[i-1]] = row
		}
		row[tokens[i]]++
		c.unigrams[tokens[i]]++
	}

	c.utterances++
	c.tokens += len(tokens)
	return tokens
}

func (c *Counter) AddConversation(utterances []string) {
	for _, u := range utterances {
		c.AddUtterance(u)
	}
}

// Build counts every conversation in document order.
func (c *Counter) Build(conversations [][]string) {
	for _, conv := range conversations {
		c.AddConversation(conv)
	}
}

func (c *Counter) Unigram(word string) int {
	return c.unigrams[word]
}

func (c *Counter) Bigram(prev, next string) int {
	return c.bigrams[prev][next]
}

// Utterances is the number of utterances counted so far.
func (c *Counter) Utterances() int {
	return c.utterances
}

// Tokens is the total number of tokens counted, SentenceStart included.
func (c *Counter) Tokens() int {
	return c.tokens
}

// Unigrams returns every unigram sorted by word.
func (c *Counter) Unigrams() []WordCount {
	out := make([]WordCount, 0, len(c.unigrams))
	for _, w := range sortedKeys(c.unigrams) {
		out = append(out, WordCount{Word: w, Count: c.unigrams[w]})
	}
	return out
}

// Successors returns the bigram row of prev sorted by the following word.
func (c *Counter) Successors(prev string) []WordCount {
	row := c.bigrams[prev]
	out := make([]WordCount, 0, len(row))
	for _, w := range sortedKeys(row) {
		out = append(out, WordCount{Word: w, Count: row[w]})
	}
	return out
}

// Bigrams returns every bigram sorted by predecessor, then successor.
func (c *Counter) Bigrams() []PairCount {
	prevs := make([]string, 0, len(c.bigrams))
	for p := range c.bigrams {
		prevs = append(prevs, p)
	}
	sort.Strings(prevs)

	var out []PairCount
	for _, p := range prevs {
		for _, s := range c.Successors(p) {
			out = append(out, PairCount{Prev: p, Next: s.Word, Count: s.Count})
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
