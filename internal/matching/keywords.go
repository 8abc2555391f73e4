// Package matching scores free text against award criteria by keyword overlap.
package matching

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MinTokenLength is the shortest token kept by Extract, in runes.
const MinTokenLength = 2

// TokenSet is a deduplicated set of keywords.
type TokenSet map[string]struct{}

// Extract returns the keyword set of text. Letters are lowercased with
// Unicode case rules, every rune that is not a letter, digit or whitespace
// is removed, and tokens shorter than MinTokenLength runes are dropped.
func Extract(text string) TokenSet {
	out := TokenSet{}
	if text == "" {
		return out
	}

	// cases.Caser is stateful, so one is built per call.
	lowered := cases.Lower(language.Und).String(text)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lowered)

	for _, tok := range strings.Fields(cleaned) {
		if len([]rune(tok)) < MinTokenLength {
			continue
		}
		out[tok] = struct{}{}
	}
	return out
}

// Has reports whether tok is in the set.
func (s TokenSet) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// NewTokenSet builds a set from already normalized keywords.
func NewTokenSet(keywords []string) TokenSet {
	out := make(TokenSet, len(keywords))
	for _, k := range keywords {
		out[k] = struct{}{}
	}
	return out
}

// NormalizeKeywords runs each keyword through Extract and returns the
// sorted union. A multi-word keyword contributes each of its words.
func NormalizeKeywords(keywords []string) []string {
	set := TokenSet{}
	for _, k := range keywords {
		for tok := range Extract(k) {
			set[tok] = struct{}{}
		}
	}
	return set.Sorted()
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets are identical (1) and
// exactly one empty set shares nothing (0).
func Jaccard(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for tok := range small {
		if large.Has(tok) {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Intersect returns the sorted tokens present in both sets.
func Intersect(a, b TokenSet) []string {
	out := []string{}
	for tok := range a {
		if b.Has(tok) {
			out = append(out, tok)
		}
	}
	sort.Strings(out)
	return out
}
