package model

import "strings"

const FallbackSearchURL = "https://www.welib.org/search?q="

var titleNoise = strings.NewReplacer(":", "", "(", "", ")", "")

// FallbackPDFURL builds the external search link stored when no PDF was uploaded:
// ':' '(' ')' are removed, whitespace is collapsed and the result is percent-encoded.
func FallbackPDFURL(title string) string {
	clean := strings.Join(strings.Fields(titleNoise.Replace(title)), " ")
	return FallbackSearchURL + quote(clean)
}

// quote percent-encodes every byte of the UTF-8 input except A-Z a-z 0-9 and "_.-~/".
// Space becomes %20.
func quote(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_', c == '.', c == '-', c == '~', c == '/':
		return true
	}
	return false
}
