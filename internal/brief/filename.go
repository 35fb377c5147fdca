package brief

import (
	"strings"
	"unicode"
)

// FallbackFileName is used when nothing usable is left of the project name.
const FallbackFileName = "project-brief.md"

// FileName returns the download name for f: the explicit FileName when set,
// otherwise a slug of the project name.
func FileName(f Fields) string {
	if name := strings.TrimSpace(f.FileName); name != "" {
		return name + ".md"
	}
	slug := Slug(f.ProjectName)
	if slug == "" {
		return FallbackFileName
	}
	return slug + ".md"
}

// Slug lower-cases s and collapses every run of non-alphanumeric characters
// into a single hyphen, trimming hyphens at either end.
func Slug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
