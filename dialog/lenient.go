package dialog

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// LoadLenient reads a dialog document with an HTML5 parser, which repairs
// unclosed or mismatched tags instead of rejecting them. Conversations are the
// outermost <s> elements below the first <dialog> element, and utterances are
// the <utt> elements below each conversation.
func LoadLenient(r io.Reader) (*Dialog, error) {
	utf8Reader, err := charset.NewReader(r, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	d := &Dialog{}
	root := findElement(doc, TagDialog)
	if root == nil {
		return d, nil
	}

	var traverse func(*html.Node, *Conversation)
	traverse = func(n *html.Node, conv *Conversation) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch {
			case conv == nil && c.Data == TagConversation:
				d.Conversations = append(d.Conversations, Conversation{})
				traverse(c, &d.Conversations[len(d.Conversations)-1])
			case conv != nil && c.Data == TagUtterance:
				conv.Utterances = append(conv.Utterances, Utterance{
					UID:  nodeAttr(c, AttrSpeaker),
					Text: firstText(c),
				})
				// An unclosed <utt> swallows the utterances that follow it.
				traverse(c, conv)
			default:
				traverse(c, conv)
			}
		}
	}
	traverse(root, nil)

	return d, nil
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func firstText(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return c.Data
		}
	}
	return ""
}
