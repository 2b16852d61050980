package dialog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	// ErrNotFound is returned when the input file cannot be opened.
	ErrNotFound = errors.New("input file not found")
	// ErrMalformed is returned when the input is not a well-formed document.
	ErrMalformed = errors.New("malformed document")
)

// IsStdin reports whether an --input value designates standard input.
func IsStdin(path string) bool {
	return path == "--" || path == "-"
}

// Open opens an input file. Any failure to open it is reported as ErrNotFound.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return f, nil
}

// Load parses an XML dialog document. Only the first top-level <dialog>
// element is read, along with its direct <s> children and their direct <utt>
// children. A document whose root is not <dialog> yields an empty Dialog.
// Names are compared as written: <x:dialog> is not a <dialog>.
//
// The text of an utterance is its first run of character data that is not
// whitespace only. Encodings other than UTF-8 are honoured when declared in the
// XML prolog.
func Load(r io.Reader) (*Dialog, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	d := &Dialog{}

	// Stack of open elements, outermost first.
	var stack []frame
	hasRoot := false
	// inDialog is true while the selected <dialog> element is open.
	inDialog := false
	dialogDone := false

	var utt *Utterance
	uttHasText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch se := token.(type) {
		case xml.StartElement:
			f := newFrame(se, stack)
			stack = append(stack, f)
			depth := len(stack)

			switch {
			case depth == 1:
				hasRoot = true
				if f.name == TagDialog && !dialogDone {
					inDialog = true
				}
			case !inDialog:
			case depth == 2 && f.name == TagConversation:
				d.Conversations = append(d.Conversations, Conversation{})
			case depth == 3 && f.name == TagUtterance && stack[1].name == TagConversation:
				utt = &Utterance{UID: attrValue(se.Attr, AttrSpeaker)}
				uttHasText = false
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected end element </%s>", ErrMalformed, se.Name.Local)
			}
			depth := len(stack)
			stack = stack[:depth-1]

			switch {
			case depth == 1 && inDialog:
				inDialog = false
				dialogDone = true
			case depth == 3 && utt != nil:
				conv := &d.Conversations[len(d.Conversations)-1]
				conv.Utterances = append(conv.Utterances, *utt)
				utt = nil
			}

		case xml.CharData:
			if utt == nil || uttHasText || len(stack) != 3 {
				continue
			}
			content := string(se)
			if strings.TrimSpace(content) != "" {
				utt.Text = content
				uttHasText = true
			}
		}
	}

	if !hasRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return d, nil
}

// frame is an open element. name is the bare local name for unprefixed
// elements and carries the namespace otherwise; defaultNS is the default
// namespace in scope for its children.
type frame struct {
	name      string
	defaultNS string
}

// newFrame names se relative to the enclosing elements. The decoder resolves
// prefixes into Name.Space and applies the default namespace to unprefixed
// names as well, so an element is unprefixed when its space is empty or equals
// the default namespace in scope.
func newFrame(se xml.StartElement, stack []frame) frame {
	var f frame
	if len(stack) > 0 {
		f.defaultNS = stack[len(stack)-1].defaultNS
	}
	for _, attr := range se.Attr {
		if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			f.defaultNS = attr.Value
		}
	}

	f.name = se.Name.Local
	if se.Name.Space != "" && se.Name.Space != f.defaultNS {
		f.name = se.Name.Space + ":" + se.Name.Local
	}
	return f
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, attr := range attrs {
		if attr.Name.Space == "" && attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
