package ngram

import "strings"

// FilterMessage removes ASCII punctuation from an utterance. Every other byte,
// including whitespace and multi-byte UTF-8 sequences, is kept in place.
func FilterMessage(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isPunct(s[i]) {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// isPunct matches the C locale ispunct class: printable, non-space, non-alphanumeric ASCII.
func isPunct(b byte) bool {
	switch {
	case b >= '!' && b <= '/':
		return true
	case b >= ':' && b <= '@':
		return true
	case b >= '[' && b <= '`':
		return true
	case b >= '{' && b <= '~':
		return true
	}
	return false
}
