package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation stripped", "A Random, Walk!", "a-random-walk"},
		{"colon and parens", "The Intelligent Investor (Revised): A Book", "the-intelligent-investor-revised-a-book"},
		{"ampersand leaves double space", "Linux Tips, Tricks & Hacks", "linux-tips-tricks-hacks"},
		{"underscores kept", "snake_case title", "snake_case-title"},
		{"hyphen runs collapse", "Self--Help -  Guide", "self-help-guide"},
		{"leading and trailing trimmed", "  -Oliver Twist-  ", "oliver-twist"},
		{"unicode letters kept", "Café Society", "café-society"},
		{"tabs and newlines", "Purple\tHibiscus\n", "purple-hibiscus"},
		{"no-break space", "Oliver\u00a0Twist", "oliver-twist"},
		{"em space and ideographic space", "Purple\u2003Hibiscus\u3000Club", "purple-hibiscus-club"},
		{"combining marks dropped", "Cafe\u0301 Life", "cafe-life"},
		{"only punctuation", "?!*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateSlug_Idempotent(t *testing.T) {
	titles := []string{"A Random, Walk!", "Mastering Manga: How to Draw Manga Faces", "My Sister the Serial Killer"}

	for _, title := range titles {
		once := GenerateSlug(title)
		assert.Equal(t, once, GenerateSlug(title), "deterministic")
		assert.Equal(t, once, GenerateSlug(once), "idempotent")
	}
}
