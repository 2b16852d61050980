package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/clems4ever/dialog-ngram/ngram"
)

// Text prints the bigram table followed by the word occurrences, one
// "prev:next -> count" or "word -> count" line per entry, sorted by key.
// The subword summary is appended when meta carries one.
func Text(w io.Writer, c *ngram.Counter, meta Meta) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Ngram table")
	fmt.Fprintln(bw, "-----------")
	for _, b := range c.Bigrams() {
		fmt.Fprintf(bw, "%s:%s -> %d\n", b.Prev, b.Next, b.Count)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Ngram word occurrence")
	fmt.Fprintln(bw, "---------------------")
	for _, u := range c.Unigrams() {
		fmt.Fprintf(bw, "%s -> %d\n", u.Word, u.Count)
	}

	if s := meta.Subwords; s != nil {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "Subword tokens (%s)\n", s.Encoding)
		fmt.Fprintln(bw, "---------------------")
		fmt.Fprintf(bw, "utterances -> %d\n", s.Utterances)
		fmt.Fprintf(bw, "subwords -> %d\n", s.Subwords)
	}

	return bw.Flush()
}
