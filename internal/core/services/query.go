package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
)

// Query syntax hints shown next to an empty result list.
const (
	hintQuote   = `close the phrase with a matching "`
	hintField   = "type a word after the field, e.g. title:setup"
	hintExclude = "type a word after -, e.g. -draft"
	hintPhrase  = `only single words can be excluded, e.g. -draft`
)

// ParseQuery parses the query syntax:
//
//	word          match word in any field
//	"some words"  match the exact phrase in title, headings or body
//	-word         reject documents containing word
//	title:word    restrict word to a field (title, heading, path, body)
//
// Words are tokenized like document text, so "set-up" becomes the two
// terms "set" and "up". A prefix that is not a known field is searched
// as plain text. Malformed input yields a *domain.QueryError.
func ParseQuery(raw string) (domain.Query, error) {
	q := domain.Query{Raw: raw}
	p := &queryParser{src: raw}

	for {
		p.skipSpace()
		if p.done() {
			break
		}
		start := p.pos

		exclude := false
		if p.peek() == '-' {
			exclude = true
			p.pos++
			if p.done() || p.atSpace() {
				return domain.Query{Raw: raw}, p.fail(start, "nothing to exclude", hintExclude)
			}
		}

		if p.peek() == '"' {
			if exclude {
				return domain.Query{Raw: raw}, p.fail(start, "phrases cannot be excluded", hintPhrase)
			}
			phrase, err := p.phrase()
			if err != nil {
				return domain.Query{Raw: raw}, err
			}
			if phrase != "" {
				q.Phrases = append(q.Phrases, phrase)
			}
			continue
		}

		word := p.word()
		field := domain.FieldAny
		if i := strings.IndexByte(word, ':'); i > 0 {
			if f, ok := domain.ParseField(strings.ToLower(word[:i])); ok {
				field = f
				word = word[i+1:]
				if word == "" {
					if p.peek() == '"' {
						// title:"two words" restricts each word to the field.
						phrase, err := p.phrase()
						if err != nil {
							return domain.Query{Raw: raw}, err
						}
						word = phrase
					} else {
						return domain.Query{Raw: raw}, p.fail(start, "empty "+f.String()+": filter", hintField)
					}
				}
			}
		}

		for _, w := range index.Words(word) {
			q.Terms = append(q.Terms, domain.Term{Text: w, Field: field, Exclude: exclude})
		}
	}

	return q, nil
}

type queryParser struct {
	src string
	pos int
}

func (p *queryParser) done() bool {
	return p.pos >= len(p.src)
}

func (p *queryParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *queryParser) atSpace() bool {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return unicode.IsSpace(r)
}

func (p *queryParser) skipSpace() {
	for !p.done() && p.atSpace() {
		_, n := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += n
	}
}

// word consumes up to the next space or quote. A quote inside a word
// starts a phrase.
func (p *queryParser) word() string {
	start := p.pos
	for !p.done() && !p.atSpace() && p.peek() != '"' {
		_, n := utf8.DecodeRuneInString(p.src[p.pos:])
		p.pos += n
	}
	return p.src[start:p.pos]
}

// phrase consumes a quoted phrase and returns it lowercased with
// whitespace collapsed. The parser must be on the opening quote.
func (p *queryParser) phrase() (string, error) {
	open := p.pos
	end := strings.IndexByte(p.src[open+1:], '"')
	if end < 0 {
		return "", p.fail(open, "unterminated quote", hintQuote)
	}
	text := p.src[open+1 : open+1+end]
	p.pos = open + end + 2
	return normalisePhrase(text), nil
}

func (p *queryParser) fail(pos int, reason, hint string) error {
	return &domain.QueryError{Query: p.src, Pos: pos, Reason: reason, Hint: hint}
}

func normalisePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
