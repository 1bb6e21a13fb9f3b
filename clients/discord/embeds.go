package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"dailydose/models"
)

// Discord message and embed limits
const (
	maxContentLength     = 2000
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxFieldNameLength   = 256
	maxFieldValueLength  = 1024
	maxEmbedFields       = 25
	maxFooterLength      = 2048
	maxMessageEmbeds     = 10
	maxMessageEmbedChars = 6000
	embedColor           = 0x4A154B
)

// embedDraft accumulates free-standing blocks until an entry, a divider or the field limit closes it
type embedDraft struct {
	title       string
	description []string
	fields      []*discordgo.MessageEmbedField
	footer      []string
}

func (d *embedDraft) empty() bool {
	return d.title == "" && len(d.description) == 0 && len(d.fields) == 0 && len(d.footer) == 0
}

func (d *embedDraft) build() *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:       embedColor,
		Title:       truncate(d.title, maxTitleLength),
		Description: truncate(strings.Join(d.description, "\n\n"), maxDescriptionLength),
		Fields:      d.fields,
	}
	if len(d.footer) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: truncate(strings.Join(d.footer, " · "), maxFooterLength)}
	}
	return embed
}

// ToDiscordMessages renders a message as embeds split across as many Discord messages as the limits require.
// Every entry gets its own embed with the entry title as description, so mentions render and each
// set of fields stays attached to its author. The fallback text is the content of the first message.
func ToDiscordMessages(msg *models.Message) []*discordgo.MessageSend {
	if len(msg.Blocks) == 0 {
		return []*discordgo.MessageSend{{Content: truncate(msg.Text, maxContentLength)}}
	}

	sends := packEmbeds(toEmbeds(msg.Blocks))
	if len(sends) == 0 {
		return []*discordgo.MessageSend{{Content: truncate(msg.Text, maxContentLength)}}
	}
	sends[0].Content = truncate(msg.Text, maxContentLength)
	return sends
}

func toEmbeds(blocks []models.Block) []*discordgo.MessageEmbed {
	var embeds []*discordgo.MessageEmbed
	draft := &embedDraft{}
	flush := func() {
		if !draft.empty() {
			embeds = append(embeds, draft.build())
		}
		draft = &embedDraft{}
	}

	for _, block := range blocks {
		switch b := block.(type) {
		case models.HeaderBlock:
			if draft.title == "" {
				draft.title = b.Text
			} else {
				draft.description = append(draft.description, "**"+b.Text+"**")
			}
		case models.SectionBlock:
			draft.description = append(draft.description, b.Text)
		case models.FieldsBlock:
			for _, pair := range b.Fields {
				if len(draft.fields) >= maxEmbedFields {
					flush()
				}
				draft.fields = append(draft.fields, embedField(pair))
			}
		case models.ContextBlock:
			draft.footer = append(draft.footer, b.Text)
		case models.DividerBlock:
			flush()
		case models.EntryBlock:
			flush()
			for start := 0; start == 0 || start < len(b.Fields); start += maxEmbedFields {
				entry := &embedDraft{description: []string{nonEmpty(b.Title)}}
				for _, pair := range b.Fields[start:min(start+maxEmbedFields, len(b.Fields))] {
					entry.fields = append(entry.fields, embedField(pair))
				}
				embeds = append(embeds, entry.build())
			}
		}
	}
	flush()
	return embeds
}

// packEmbeds groups embeds into messages within the per-message embed count and character budget
func packEmbeds(embeds []*discordgo.MessageEmbed) []*discordgo.MessageSend {
	var sends []*discordgo.MessageSend
	var current *discordgo.MessageSend
	chars := 0

	for _, embed := range embeds {
		size := embedChars(embed)
		if current == nil || len(current.Embeds) >= maxMessageEmbeds || chars+size > maxMessageEmbedChars {
			current = &discordgo.MessageSend{}
			sends = append(sends, current)
			chars = 0
		}
		current.Embeds = append(current.Embeds, embed)
		chars += size
	}
	return sends
}

func embedChars(embed *discordgo.MessageEmbed) int {
	n := len([]rune(embed.Title)) + len([]rune(embed.Description))
	if embed.Footer != nil {
		n += len([]rune(embed.Footer.Text))
	}
	for _, field := range embed.Fields {
		n += len([]rune(field.Name)) + len([]rune(field.Value))
	}
	return n
}

func embedField(pair models.FieldPair) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:  truncate(nonEmpty(pair.Label), maxFieldNameLength),
		Value: truncate(nonEmpty(pair.Value), maxFieldValueLength),
	}
}

// Discord rejects embed fields with empty names or values
func nonEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
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
