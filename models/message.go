package models

import (
	"strings"
)

type BlockKind string

const (
	BlockKindHeader  BlockKind = "header"
	BlockKindSection BlockKind = "section"
	BlockKindFields  BlockKind = "fields"
	BlockKindContext BlockKind = "context"
	BlockKindDivider BlockKind = "divider"
	BlockKindEntry   BlockKind = "entry"
)

// Block is one element of an outbound message. Transports switch on the concrete type.
type Block interface {
	Kind() BlockKind
}

type HeaderBlock struct {
	Text string
}

// SectionBlock holds markdown text
type SectionBlock struct {
	Text string
}

type FieldPair struct {
	Label string
	Value string
}

type FieldsBlock struct {
	Fields []FieldPair
}

type ContextBlock struct {
	Text string
}

type DividerBlock struct{}

// EntryBlock is one attributed item, e.g. a member's update: a markdown title and its fields
type EntryBlock struct {
	Title  string
	Fields []FieldPair
}

func (HeaderBlock) Kind() BlockKind  { return BlockKindHeader }
func (SectionBlock) Kind() BlockKind { return BlockKindSection }
func (FieldsBlock) Kind() BlockKind  { return BlockKindFields }
func (ContextBlock) Kind() BlockKind { return BlockKindContext }
func (DividerBlock) Kind() BlockKind { return BlockKindDivider }
func (EntryBlock) Kind() BlockKind   { return BlockKindEntry }

// Message is a transport-neutral outbound message.
// Text is the notification fallback shown by clients that do not render blocks.
type Message struct {
	Text   string
	Blocks []Block
}

// PlainText renders the blocks as markdown-ish text for transports without rich layouts
func (m *Message) PlainText() string {
	if len(m.Blocks) == 0 {
		return m.Text
	}

	var sb strings.Builder
	for _, block := range m.Blocks {
		switch b := block.(type) {
		case HeaderBlock:
			sb.WriteString("**" + b.Text + "**\n")
		case SectionBlock:
			sb.WriteString(b.Text + "\n")
		case FieldsBlock:
			for _, f := range b.Fields {
				sb.WriteString("**" + f.Label + "**\n" + f.Value + "\n")
			}
		case ContextBlock:
			sb.WriteString("_" + b.Text + "_\n")
		case DividerBlock:
			sb.WriteString("───\n")
		case EntryBlock:
			sb.WriteString(b.Title + "\n")
			for _, f := range b.Fields {
				sb.WriteString("**" + f.Label + "**\n" + f.Value + "\n")
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

type MessageBuilder struct {
	msg Message
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{}
}

func (b *MessageBuilder) Header(text string) *MessageBuilder {
	b.msg.Blocks = append(b.msg.Blocks, HeaderBlock{Text: text})
	return b
}

func (b *MessageBuilder) Section(text string) *MessageBuilder {
	b.msg.Blocks = append(b.msg.Blocks, SectionBlock{Text: text})
	return b
}

// Fields appends a field-pair block; empty pair lists are dropped
func (b *MessageBuilder) Fields(pairs ...FieldPair) *MessageBuilder {
	if len(pairs) == 0 {
		return b
	}
	b.msg.Blocks = append(b.msg.Blocks, FieldsBlock{Fields: pairs})
	return b
}

// Entry appends an attributed item that transports keep together as one unit
func (b *MessageBuilder) Entry(title string, pairs ...FieldPair) *MessageBuilder {
	b.msg.Blocks = append(b.msg.Blocks, EntryBlock{Title: title, Fields: pairs})
	return b
}

func (b *MessageBuilder) Context(text string) *MessageBuilder {
	b.msg.Blocks = append(b.msg.Blocks, ContextBlock{Text: text})
	return b
}

func (b *MessageBuilder) Divider() *MessageBuilder {
	b.msg.Blocks = append(b.msg.Blocks, DividerBlock{})
	return b
}

// Build finalizes the message with the given fallback text
func (b *MessageBuilder) Build(fallback string) *Message {
	msg := b.msg
	msg.Text = fallback
	msg.Blocks = append([]Block(nil), b.msg.Blocks...)
	return &msg
}
