// Package matching pairs book titles with loose media files whose names only
// approximately reference the title.
package matching

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTokenLength is exclusive: only title tokens longer than this take part in pass 1.
const MinTokenLength = 2

var (
	stopWordRe    = regexp.MustCompile(`\b(the|a|an|and|or|but|in|on|at|to|for|of|with|by)\b`)
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\x{85}]+`)
	separators    = strings.NewReplacer("_", " ", "-", " ")
)

// NormalizeFilename strips the extension, turns '_' and '-' into spaces, lowercases,
// drops punctuation and collapses whitespace.
//
//	"A_Random-Walk (2nd).jpeg" → "a random walk 2nd"
func NormalizeFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(separators.Replace(base))
	base = punctuationRe.ReplaceAllString(base, "")
	return strings.Join(strings.Fields(base), " ")
}

// TitleTokens lowercases the title, removes stop-words as whole words, strips
// punctuation and splits on whitespace.
//
//	"Oliver Twist" → [oliver twist]
func TitleTokens(title string) []string {
	clean := stopWordRe.ReplaceAllString(strings.ToLower(title), "")
	clean = punctuationRe.ReplaceAllString(clean, "")
	return strings.Fields(clean)
}

// significantTokens keeps the tokens pass 1 uses.
func significantTokens(title string) []string {
	tokens := TitleTokens(title)
	out := tokens[:0]
	for _, t := range tokens {
		if utf8.RuneCountInString(t) > MinTokenLength {
			out = append(out, t)
		}
	}
	return out
}
