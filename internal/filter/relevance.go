// Screen postings by title relevance before they are considered for
// acceptance, so the harvest stays focused on the configured role family.

package filter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Matcher holds the normalized relevance keyword list.
type Matcher struct {
	keywords []string
}

// NewMatcher builds a Matcher from the configured relevance keywords. An
// empty list matches everything.
func NewMatcher(keywords []string) *Matcher {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = normalizeText(kw)
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	return &Matcher{keywords: normalized}
}

// Relevant reports whether a posting's title (or any extra text the adapter
// extracted) mentions one of the relevance keywords.
func (m *Matcher) Relevant(title string, extra ...string) bool {
	if len(m.keywords) == 0 {
		return true
	}

	text := normalizeText(title)
	for _, e := range extra {
		text += " " + normalizeText(e)
	}

	for _, kw := range m.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// normalizeText lowercases and strips diacritics so keyword matching is not
// defeated by accented site copy.
func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(strings.TrimSpace(result))
}
