package slack

import (
	"fmt"

	"github.com/slack-go/slack"

	"dailydose/models"
	"dailydose/utils"
)

// Slack Block Kit limits
const (
	maxHeaderLength  = 150
	maxSectionLength = 3000
	maxFieldLength   = 2000
	maxSectionFields = 10
	maxMessageBlocks = 50
)

// ToSlackBlocks converts a transport-neutral message into Block Kit blocks.
// Markdown in section, field and context text is rewritten to Slack mrkdwn.
func ToSlackBlocks(msg *models.Message) []slack.Block {
	var blocks []slack.Block
	for _, block := range msg.Blocks {
		switch b := block.(type) {
		case models.HeaderBlock:
			text := slack.NewTextBlockObject(slack.PlainTextType, truncate(b.Text, maxHeaderLength), true, false)
			blocks = append(blocks, slack.NewHeaderBlock(text))
		case models.SectionBlock:
			text := slack.NewTextBlockObject(slack.MarkdownType, mrkdwn(b.Text, maxSectionLength), false, false)
			blocks = append(blocks, slack.NewSectionBlock(text, nil, nil))
		case models.FieldsBlock:
			blocks = append(blocks, fieldSections(b.Fields)...)
		case models.ContextBlock:
			text := slack.NewTextBlockObject(slack.MarkdownType, mrkdwn(b.Text, maxSectionLength), false, false)
			blocks = append(blocks, slack.NewContextBlock("", text))
		case models.DividerBlock:
			blocks = append(blocks, slack.NewDividerBlock())
		case models.EntryBlock:
			blocks = append(blocks, entrySections(b)...)
		}
	}
	return blocks
}

// ToSlackBlockBatches splits the converted blocks into chunks Slack accepts in a single message
func ToSlackBlockBatches(msg *models.Message) [][]slack.Block {
	blocks := ToSlackBlocks(msg)
	var batches [][]slack.Block
	for start := 0; start < len(blocks); start += maxMessageBlocks {
		batches = append(batches, blocks[start:min(start+maxMessageBlocks, len(blocks))])
	}
	return batches
}

// entrySections renders an entry as one section: the title as text and the pairs as its fields.
// Pairs beyond the per-section limit continue in field-only sections.
func entrySections(entry models.EntryBlock) []slack.Block {
	title := slack.NewTextBlockObject(slack.MarkdownType, mrkdwn(nonEmpty(entry.Title), maxSectionLength), false, false)
	if len(entry.Fields) == 0 {
		return []slack.Block{slack.NewSectionBlock(title, nil, nil)}
	}

	head := min(maxSectionFields, len(entry.Fields))
	blocks := []slack.Block{slack.NewSectionBlock(title, fieldObjects(entry.Fields[:head]), nil)}
	return append(blocks, fieldSections(entry.Fields[head:])...)
}

// fieldSections splits field pairs across sections of at most ten fields each
func fieldSections(pairs []models.FieldPair) []slack.Block {
	var blocks []slack.Block
	for start := 0; start < len(pairs); start += maxSectionFields {
		end := min(start+maxSectionFields, len(pairs))
		blocks = append(blocks, slack.NewSectionBlock(nil, fieldObjects(pairs[start:end]), nil))
	}
	return blocks
}

func fieldObjects(pairs []models.FieldPair) []*slack.TextBlockObject {
	fields := make([]*slack.TextBlockObject, 0, len(pairs))
	for _, pair := range pairs {
		text := fmt.Sprintf("*%s*\n%s", pair.Label, utils.ConvertMarkdownToSlack(pair.Value))
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, truncate(text, maxFieldLength), false, false))
	}
	return fields
}

func mrkdwn(text string, limit int) string {
	return truncate(utils.ConvertMarkdownToSlack(text), limit)
}

// Slack rejects section text objects with empty text
func nonEmpty(s string) string {
	if s == "" {
		return " "
	}
	return s
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
