package blogs

import (
	"strings"

	slug "github.com/goliatone/go-slug"
)

// NormalizeTitle lowercases, collapses internal whitespace, and trims the
// supplied title. Human-entered titles vary in casing and spacing; lookups
// must resolve "Solar  Power" and "solar power" to the same record.
func NormalizeTitle(title string) string {
	fields := strings.Fields(strings.ToLower(title))
	return strings.Join(fields, " ")
}

// SlugFromTitle derives the URL slug persisted alongside a blog.
func SlugFromTitle(title string) string {
	if normalized, err := slug.Normalize(title); err == nil && normalized != "" {
		return normalized
	}
	return strings.ReplaceAll(NormalizeTitle(title), " ", "-")
}

// TitleFromSlug reverses slugification far enough for normalized-title
// lookups: hyphens become spaces and NormalizeTitle does the rest.
func TitleFromSlug(s string) string {
	return NormalizeTitle(strings.ReplaceAll(s, "-", " "))
}
