package adapter

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (no-op on already-plain text), strips all
// tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// parsePostedAt loosely parses a timestamp from the heterogeneous formats the
// sources emit. Returns nil when the value is absent or unparseable; recency
// filtering fails open on missing timestamps.
func parsePostedAt(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
