package model

import "strings"

// Flag selects one of the home page groupings.
type Flag string

const (
	FlagRecommended Flag = "recommended"
	FlagFiction     Flag = "fiction"
	FlagBusiness    Flag = "business"
)

// FlagFallbackLimit is how many books replace an empty flagged section.
const FlagFallbackLimit = 6

func ParseFlag(s string) (Flag, bool) {
	switch f := Flag(strings.ToLower(strings.TrimSpace(s))); f {
	case FlagRecommended, FlagFiction, FlagBusiness:
		return f, true
	}
	return "", false
}

// Column returns the books column backing the flag.
func (f Flag) Column() string {
	switch f {
	case FlagFiction:
		return "fiction_books"
	case FlagBusiness:
		return "business_books"
	default:
		return "recommended_books"
	}
}

// Flags are derived from the selected categories at upload time.
type Flags struct {
	Recommended bool
	Fiction     bool
	Business    bool
}

// ClassifyFlags sets fiction/business when a category is named exactly that
// (case-insensitive); recommended = fiction OR business.
func ClassifyFlags(categoryNames []string) Flags {
	var f Flags
	for _, name := range categoryNames {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "fiction":
			f.Fiction = true
		case "business":
			f.Business = true
		}
	}
	f.Recommended = f.Fiction || f.Business
	return f
}
