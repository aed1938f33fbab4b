package index

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// MaxTokenLen drops longer tokens, which are almost always encoded
// blobs or hashes.
const MaxTokenLen = 64

// Token is a lowercased word and its byte range in the source text.
type Token struct {
	Term  string
	Start int
	End   int
}

// Tokenize splits s into lowercase tokens. Any rune that is not a
// letter or a digit separates tokens.
func Tokenize(s string) []Token {
	var tokens []Token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		if n := utf8.RuneCountInString(s[start:end]); n <= MaxTokenLen {
			tokens = append(tokens, Token{Term: strings.ToLower(s[start:end]), Start: start, End: end})
		}
		start = -1
	}

	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(s))

	return tokens
}

// Terms returns the distinct tokens of s.
func Terms(s string) domain.TermSet {
	return domain.NewTermSet(Words(s)...)
}

// Words returns the tokens of s as plain strings, in order.
func Words(s string) []string {
	tokens := Tokenize(s)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Term
	}
	return out
}
