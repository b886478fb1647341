package matching

import (
	"sort"
	"strings"

	"freewriter/internal/infrastructure/storage"
)

type candidate struct {
	name       string // file name as found on disk
	normalized string
}

// Matcher hands out each candidate file at most once.
// It is not safe for concurrent use; a maintenance run owns one Matcher.
type Matcher struct {
	kind       AssetKind
	candidates []candidate // sorted by name
	used       map[string]bool
}

// NewMatcher builds the candidate pool. Duplicate names are collapsed.
func NewMatcher(kind AssetKind, files []string) *Matcher {
	seen := make(map[string]bool, len(files))
	candidates := make([]candidate, 0, len(files))
	for _, f := range files {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		candidates = append(candidates, candidate{name: f, normalized: NormalizeFilename(f)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].name < candidates[j].name })

	return &Matcher{kind: kind, candidates: candidates, used: map[string]bool{}}
}

// MarkReferenced removes from the pool every candidate already stored under one of keys.
// Blob keys carry the sanitised original filename, see storage.ObjectKey.
func (m *Matcher) MarkReferenced(keys []string) {
	referenced := make(map[string]bool, len(keys))
	for _, k := range keys {
		referenced[storage.OriginalName(k)] = true
	}
	for _, c := range m.candidates {
		if referenced[storage.SanitizeFilename(c.name)] {
			m.used[c.name] = true
		}
	}
}

// MarkUsed removes name from the pool.
func (m *Matcher) MarkUsed(name string) {
	m.used[name] = true
}

// Release returns a matched name to the pool after its attach failed.
// Names pre-marked by MarkReferenced are never handed out, so they are never released.
func (m *Matcher) Release(name string) {
	delete(m.used, name)
}

// Match finds a file for title and marks it used.
//
// Pass 1 takes the first unused candidate whose normalised name contains any title
// token longer than two characters. Pass 2 consults the keyword table. When both fail
// there is no match: leftovers are never handed out arbitrarily.
func (m *Matcher) Match(title string) (string, bool) {
	tokens := significantTokens(title)
	for _, c := range m.candidates {
		if m.used[c.name] {
			continue
		}
		for _, t := range tokens {
			if strings.Contains(c.normalized, t) {
				return m.take(c.name), true
			}
		}
	}

	return m.matchRule(strings.ToLower(title))
}

// Pair finds the PDF that goes with an image file name: the normalised names contain one
// another, or share at least two words. The keyword table is the fallback.
func (m *Matcher) Pair(imageFile string) (string, bool) {
	img := NormalizeFilename(imageFile)
	if img == "" {
		return "", false
	}
	imgWords := wordSet(img)

	for _, c := range m.candidates {
		if m.used[c.name] || c.normalized == "" {
			continue
		}
		if strings.Contains(c.normalized, img) || strings.Contains(img, c.normalized) {
			return m.take(c.name), true
		}
		if commonWords(imgWords, c.normalized) >= 2 {
			return m.take(c.name), true
		}
	}

	return m.matchRule(img)
}

// matchRule resolves the first keyword rule found in text: its known file when present
// and unused, otherwise the first unused candidate containing the keyword.
func (m *Matcher) matchRule(text string) (string, bool) {
	rule, ok := ruleFor(text)
	if !ok {
		return "", false
	}

	known := rule.file(m.kind)
	for _, c := range m.candidates {
		if c.name == known && !m.used[c.name] {
			return m.take(c.name), true
		}
	}
	for _, c := range m.candidates {
		if !m.used[c.name] && strings.Contains(c.normalized, rule.Keyword) {
			return m.take(c.name), true
		}
	}
	return "", false
}

func (m *Matcher) take(name string) string {
	m.used[name] = true
	return name
}

// Unused lists the candidates nobody claimed, sorted.
func (m *Matcher) Unused() []string {
	out := []string{}
	for _, c := range m.candidates {
		if !m.used[c.name] {
			out = append(out, c.name)
		}
	}
	return out
}

// Len is the size of the pool, used or not.
func (m *Matcher) Len() int {
	return len(m.candidates)
}

func wordSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

func commonWords(set map[string]bool, s string) int {
	n := 0
	for w := range wordSet(s) {
		if set[w] {
			n++
		}
	}
	return n
}
