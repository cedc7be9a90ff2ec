package bookverse

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
)

const placeholderCover = "https://via.placeholder.com/180x240?text="

var stripPolicy = bluemonday.StrictPolicy()

// Clean strips markup from server-provided text before it reaches a terminal.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}

// NormalizeList turns a comma-separated form field into a list. Empty input
// yields nil, which encodes as JSON null.
func NormalizeList(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func coverURL(b *Book) string {
	if b.Image != "" {
		return b.Image
	}
	return placeholderCover + url.QueryEscape(b.Title)
}

func authorOrUnknown(author string) string {
	if author == "" {
		return "Unknown Author"
	}
	return author
}

// FormatRating renders a rating with one decimal.
func FormatRating(n Number) string {
	return fmt.Sprintf("%.1f", float64(n))
}

// Stars renders n as a row of stars.
func Stars(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat("*", n)
}
