// Package dialog reads dialog corpora of the form
//
//	<dialog>
//	    <s>
//	        <utt uid="1">Hey, how are you?</utt>
//	    </s>
//	</dialog>
//
// where each <s> groups the utterances of one conversation.
package dialog

import (
	"io"
	"strings"
)

const (
	TagDialog       = "dialog"
	TagConversation = "s"
	TagUtterance    = "utt"
	AttrSpeaker     = "uid"

	indent = "    "
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;")
)

// Utterance is one line of dialog. UID identifies the speaker and may be empty.
type Utterance struct {
	UID  string
	Text string
}

type Conversation struct {
	Utterances []Utterance
}

type Dialog struct {
	Conversations []Conversation
}

// Texts returns the utterance texts grouped by conversation, in document order.
func (d *Dialog) Texts() [][]string {
	out := make([][]string, 0, len(d.Conversations))
	for _, c := range d.Conversations {
		texts := make([]string, 0, len(c.Utterances))
		for _, u := range c.Utterances {
			texts = append(texts, u.Text)
		}
		out = append(out, texts)
	}
	return out
}

// Len returns the total number of utterances.
func (d *Dialog) Len() int {
	n := 0
	for _, c := range d.Conversations {
		n += len(c.Utterances)
	}
	return n
}

// PrettyPrint writes the dialog as an XML document indented with four spaces.
func (d *Dialog) PrettyPrint(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0"?>` + "\n")
	if len(d.Conversations) == 0 {
		sb.WriteString("<" + TagDialog + " />\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	sb.WriteString("<" + TagDialog + ">\n")
	for _, c := range d.Conversations {
		if len(c.Utterances) == 0 {
			sb.WriteString(indent + "<" + TagConversation + " />\n")
			continue
		}
		sb.WriteString(indent + "<" + TagConversation + ">\n")
		for _, u := range c.Utterances {
			u.writeTo(&sb, 2)
		}
		sb.WriteString(indent + "</" + TagConversation + ">\n")
	}
	sb.WriteString("</" + TagDialog + ">\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (u Utterance) writeTo(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat(indent, depth))
	sb.WriteString("<" + TagUtterance)
	if u.UID != "" {
		sb.WriteString(" " + AttrSpeaker + `="` + attrEscaper.Replace(u.UID) + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(textEscaper.Replace(u.Text))
	sb.WriteString("</" + TagUtterance + ">\n")
}

// Template is the sample corpus printed by `ngram --template`.
func Template() *Dialog {
	return &Dialog{Conversations: []Conversation{
		{Utterances: []Utterance{
			{UID: "1", Text: "Hey, how are you?"},
			{UID: "2", Text: "I'm fine thank you!"},
			{UID: "1", Text: "Nice!"},
		}},
		{Utterances: []Utterance{
			{UID: "1", Text: "Who's around for lunch?"},
			{UID: "2", Text: "Me!"},
			{UID: "3", Text: "Me, too!"},
		}},
	}}
}
