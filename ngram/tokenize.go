package ngram

import "strings"

// SentenceStart is prepended to the token sequence of every utterance.
const SentenceStart = "<s>"

// Tokenize splits a filtered utterance on the space character and prepends
// SentenceStart. Repeated spaces produce empty tokens and other whitespace stays
// inside the token it belongs to.
func Tokenize(s string) []string {
	words := strings.Split(s, " ")
	tokens := make([]string, 0, len(words)+1)
	tokens = append(tokens, SentenceStart)
	return append(tokens, words...)
}
