package domain

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	strictOnce   sync.Once
)

// StripHTML removes all HTML markup from text, returning plain text with
// entities decoded. Product descriptions arrive with arbitrary markup from
// upstream feeds; exports and API responses want clean text.
func StripHTML(text string) string {
	if text == "" {
		return ""
	}
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	plain := strictPolicy.Sanitize(text)
	plain = html.UnescapeString(plain)
	plain = strings.ReplaceAll(plain, " ", " ")
	return strings.TrimSpace(plain)
}

// TruncateText shortens text to max runes, appending "..." when it was cut.
// Used to cap long descriptions in PDF exports and detail views.
func TruncateText(text string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
