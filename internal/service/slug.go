package service

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify turns a page title into a URL-safe slug: lowercase alphanumerics
// with single dashes between words.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "page"
	}
	return slug
}

// suffixSlug appends a short random suffix, used when a generated slug is
// already taken.
func suffixSlug(slug string) string {
	return slug + "-" + uuid.NewString()[:8]
}
