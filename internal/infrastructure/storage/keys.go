package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Blob key prefixes.
const (
	PrefixImages  = "img"
	PrefixPDFs    = "pdf"
	PrefixAvatars = "avatars"
)

const maxKeyNameLen = 100

// ObjectKey builds "<prefix>/<uuid>-<sanitised filename>".
func ObjectKey(prefix, filename string) string {
	return prefix + "/" + uuid.NewString() + "-" + SanitizeFilename(filename)
}

// SanitizeFilename keeps the base name and replaces anything outside [A-Za-z0-9._-] with '_'.
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "._")
	if name == "" {
		name = "file"
	}
	if len(name) > maxKeyNameLen {
		ext := filepath.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:maxKeyNameLen-len(ext)] + ext
	}
	return name
}

// OriginalName returns the sanitised filename an ObjectKey was built from.
// Keys that do not follow the "<uuid>-<name>" layout are returned without their prefix.
func OriginalName(key string) string {
	name := key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}
