package index

import (
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Match qualities, best first.
const (
	QualityExact     = 1.0
	QualityStem      = 0.9
	QualityPrefix    = 0.8
	QualitySubstring = 0.6
	QualityTypo      = 0.5
)

// MinSubstringLen is the shortest term matched inside longer tokens.
const MinSubstringLen = 3

var editOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Stem returns the English stem of a lowercase word.
func Stem(word string) string {
	return english.Stem(word, true)
}

// MaxEdits returns the edit distance tolerated for a term of n runes.
func MaxEdits(n int) int {
	switch {
	case n >= 8:
		return 2
	case n >= 4:
		return 1
	default:
		return 0
	}
}

// TermMatcher grades index tokens against one lowercase query term.
// It is safe for concurrent use.
type TermMatcher struct {
	term     string
	stem     string
	runes    []rune
	maxEdits int
}

// NewTermMatcher prepares a matcher for term.
func NewTermMatcher(term string) *TermMatcher {
	term = strings.ToLower(term)
	runes := []rune(term)
	return &TermMatcher{
		term:     term,
		stem:     Stem(term),
		runes:    runes,
		maxEdits: MaxEdits(len(runes)),
	}
}

// Term returns the query term.
func (m *TermMatcher) Term() string {
	return m.term
}

// StemKey returns the stem of the query term.
func (m *TermMatcher) StemKey() string {
	return m.stem
}

// NeedsScan reports whether matching can succeed on tokens that share
// neither the term's prefix nor its stem, which requires scanning
// the whole vocabulary.
func (m *TermMatcher) NeedsScan() bool {
	return len(m.runes) >= MinSubstringLen || m.maxEdits > 0
}

// Quality returns the best match quality of token, or 0 if it does
// not match. Exact beats stem beats prefix beats substring beats typo.
func (m *TermMatcher) Quality(token string) float64 {
	if m.term == "" || token == "" {
		return 0
	}
	if token == m.term {
		return QualityExact
	}
	// Snowball only rewrites suffixes, so equal stems share a first byte.
	if token[0] == m.term[0] && Stem(token) == m.stem {
		return QualityStem
	}
	if strings.HasPrefix(token, m.term) {
		return QualityPrefix
	}
	if len(m.runes) >= MinSubstringLen && strings.Contains(token, m.term) {
		return QualitySubstring
	}
	if m.maxEdits > 0 {
		n := utf8.RuneCountInString(token)
		if diff := n - len(m.runes); diff <= m.maxEdits && diff >= -m.maxEdits {
			d := levenshtein.DistanceForStrings(m.runes, []rune(token), editOptions)
			if d > 0 && d <= m.maxEdits {
				return QualityTypo / float64(d)
			}
		}
	}
	return 0
}

// Best returns the highest quality over a set of tokens and the token
// that achieved it.
func (m *TermMatcher) Best(tokens map[string]struct{}) (float64, string) {
	if _, ok := tokens[m.term]; ok {
		return QualityExact, m.term
	}
	best, bestToken := 0.0, ""
	for t := range tokens {
		q := m.Quality(t)
		if q > best || (q == best && q > 0 && t < bestToken) {
			best, bestToken = q, t
		}
	}
	return best, bestToken
}
