package sanitize

import (
	"regexp"
	"strings"
)

var (
	codeFenceRe  = regexp.MustCompile("(?s)```.*?```")
	rolePrefixRe = regexp.MustCompile(`(?i)(system:|user:|assistant:)`)
	overrideRe   = regexp.MustCompile(`(?i)ignore previous instructions`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Clean strips prompt-injection patterns from free-text user input before it
// reaches the model or a cache key: fenced code blocks, chat role prefixes,
// attempts to override prior instructions, and runs of whitespace. The result
// is trimmed. Empty input yields an empty string.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = codeFenceRe.ReplaceAllString(text, "")
	text = rolePrefixRe.ReplaceAllString(text, "")
	text = overrideRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
