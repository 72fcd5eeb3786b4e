package domain

import (
	"regexp"
	"strings"
)

var (
	whitespace    = regexp.MustCompile(`\s`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedDash  = regexp.MustCompile(`-+`)
	greekReplacer = strings.NewReplacer("α", "a", "β", "b")
)

// Slugify converts a title into a file-safe slug.
// Whitespace becomes dashes, greek alpha and beta are transliterated,
// everything else outside [a-z0-9-] is dropped.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = greekReplacer.Replace(slug)
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = repeatedDash.ReplaceAllString(slug, "-")
	return strings.TrimSuffix(slug, "-")
}

// FitTitle shortens a title for log output.
func FitTitle(title string, maxLen int) string {
	runes := []rune(title)
	if maxLen <= 0 || len(runes) <= maxLen {
		return title
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "..."
}
