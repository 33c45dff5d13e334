package utils

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var placeholderPattern = regexp.MustCompile(`\[([a-z_]+):([a-z_]+)\]`)

// ReplacePlaceholders substitutes [group:name] tokens from values, keyed by
// "group:name". Unknown tokens are cleared.
func ReplacePlaceholders(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		return values[strings.Trim(token, "[]")]
	})
}

// StripTags drops markup but keeps text exactly as written, entities included.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}
	var b strings.Builder
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			return b.String()
		case xhtml.TextToken:
			b.Write(z.Raw())
		}
	}
}

// PlainText turns a markup template result into the text sent to a network.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(StripTags(s)))
}
