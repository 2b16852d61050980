// Package report renders ngram tables.
package report

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/clems4ever/dialog-ngram/ngram"
	"github.com/clems4ever/dialog-ngram/subword"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted values for Write.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Meta describes the run that produced the tables.
type Meta struct {
	RunID    string
	Source   string
	Subwords *subword.Summary
}

// NewMeta stamps a run with a fresh ULID.
func NewMeta(source string) Meta {
	return Meta{
		RunID:  ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		Source: source,
	}
}

// Document is the structured form used by the JSON and YAML reports.
type Document struct {
	RunID           string            `json:"run_id" yaml:"run_id"`
	Source          string            `json:"source" yaml:"source"`
	CaseInsensitive bool              `json:"case_insensitive" yaml:"case_insensitive"`
	Utterances      int               `json:"utterances" yaml:"utterances"`
	Tokens          int               `json:"tokens" yaml:"tokens"`
	Bigrams         []ngram.PairCount `json:"bigrams" yaml:"bigrams"`
	Unigrams        []ngram.WordCount `json:"unigrams" yaml:"unigrams"`
	Subwords        *subword.Summary  `json:"subwords,omitempty" yaml:"subwords,omitempty"`
}

func NewDocument(c *ngram.Counter, meta Meta) *Document {
	bigrams := c.Bigrams()
	if bigrams == nil {
		bigrams = []ngram.PairCount{}
	}
	return &Document{
		RunID:           meta.RunID,
		Source:          meta.Source,
		CaseInsensitive: c.Options().CaseInsensitive,
		Utterances:      c.Utterances(),
		Tokens:          c.Tokens(),
		Bigrams:         bigrams,
		Unigrams:        c.Unigrams(),
		Subwords:        meta.Subwords,
	}
}

// Write renders the tables in the given format.
func Write(w io.Writer, format string, c *ngram.Counter, meta Meta) error {
	switch format {
	case FormatText:
		return Text(w, c, meta)
	case FormatJSON:
		return JSON(w, c, meta)
	case FormatYAML:
		return YAML(w, c, meta)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func JSON(w io.Writer, c *ngram.Counter, meta Meta) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(c, meta))
}

func YAML(w io.Writer, c *ngram.Counter, meta Meta) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(c, meta)); err != nil {
		return err
	}
	return enc.Close()
}
