package htmlutil

import (
	stdhtml "html"
	"regexp"
	"strings"
)

var htmlTagRe = regexp.MustCompile(`(?is)<[^>]*>`)

// CleanText normalizes a possibly-HTML string into a single-line plain text.
// It unescapes HTML entities, strips HTML tags, and collapses whitespace.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = stdhtml.UnescapeString(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
