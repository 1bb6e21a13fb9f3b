package utils

import (
	"regexp"
)

var (
	markdownLinkRegex    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	markdownHeadingRegex = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	markdownBoldRegex    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	markdownStrikeRegex  = regexp.MustCompile(`~~(.+?)~~`)
)

// ConvertMarkdownToSlack rewrites standard Markdown into Slack mrkdwn.
// Mentions (<@U123>) and _italics_ are shared by both dialects and pass through unchanged.
func ConvertMarkdownToSlack(message string) string {
	// links first so their brackets don't collide with other rules
	result := markdownLinkRegex.ReplaceAllString(message, "<$2|$1>")

	result = markdownHeadingRegex.ReplaceAllStringFunc(result, func(match string) string {
		content := markdownHeadingRegex.ReplaceAllString(match, "$1")
		content = markdownBoldRegex.ReplaceAllString(content, "$1")
		return "*" + content + "*"
	})

	result = markdownBoldRegex.ReplaceAllString(result, "*$1*")
	result = markdownStrikeRegex.ReplaceAllString(result, "~$1~")
	return result
}
