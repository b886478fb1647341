package utils

import (
	"regexp"
	"strings"
)

var (
	// anything that is not a word character, whitespace or hyphen; \s alone is ASCII only
	slugStripRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\x{85}-]+`)
	slugCollapseRe = regexp.MustCompile(`[-\s\p{Z}\x{85}]+`)
)

// GenerateSlug derives a URL-safe slug from a title.
//
//	"A Random, Walk!" → "a-random-walk"
//
// Steps: lowercase, strip non-word/non-space/non-hyphen characters, collapse runs of
// whitespace and hyphens into one hyphen, trim leading and trailing hyphens.
// The result is stable: GenerateSlug(GenerateSlug(s)) == GenerateSlug(s).
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)
	cleaned := slugStripRe.ReplaceAllString(lower, "")
	collapsed := slugCollapseRe.ReplaceAllString(cleaned, "-")
	return strings.Trim(collapsed, "-")
}
