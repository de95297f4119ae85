package main

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Names and chat lines are plain text; no markup survives. Entities are
// decoded once before sanitizing and never after, so anything that still
// looks like a tag leaves here escaped.
var textPolicy = bluemonday.StrictPolicy()

const (
	maxNameRunes = 24
	maxChatRunes = 500
)

func sanitizeName(name string) string {
	return clean(name, maxNameRunes)
}

func sanitizeChat(text string) string {
	return clean(text, maxChatRunes)
}

func clean(s string, limit int) string {
	s = strings.TrimSpace(html.UnescapeString(s))
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit])
	}
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
