package services

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
)

// SnippetWidth is the longest snippet in bytes, before ellipses.
const SnippetWidth = 120

// highlight fills the spans and snippet of r for doc.
func (c *compiledQuery) highlight(r *domain.SearchResult, doc *domain.Document) {
	r.Spans = append(r.Spans, c.spans(doc.Title, domain.FieldTitle)...)
	pathSpans := c.spans(doc.RelPath, domain.FieldPath)
	if len(pathSpans) == 0 {
		pathSpans = c.fuzzyPathSpans(doc.RelPath)
	}
	r.Spans = append(r.Spans, pathSpans...)

	line, start := c.snippetLine(doc.Body)
	r.Snippet, r.SnippetSpans = c.cutSnippet(line, start)
}

// spans returns the byte ranges in text of tokens matched by a
// positive term allowed in field, plus phrase occurrences.
func (c *compiledQuery) spans(text string, field domain.Field) []domain.Span {
	var out []domain.Span
	for _, tok := range index.Tokenize(text) {
		if c.matchesToken(tok.Term, field) {
			out = append(out, domain.Span{Field: field, Start: tok.Start, End: tok.End})
		}
	}
	if field != domain.FieldPath {
		out = append(out, phraseSpans(text, c.phrases, field)...)
	}
	return mergeSpans(out)
}

func (c *compiledQuery) matchesToken(token string, field domain.Field) bool {
	for _, t := range c.positive {
		if t.applies(field) && t.matcher.Quality(token) > 0 {
			return true
		}
	}
	return false
}

func (c *compiledQuery) fuzzyPathSpans(relPath string) []domain.Span {
	var out []domain.Span
	for _, t := range c.positive {
		if !t.applies(domain.FieldPath) || len(t.Text) < 2 {
			continue
		}
		for _, m := range fuzzy.Find(t.Text, []string{relPath}) {
			for _, i := range m.MatchedIndexes {
				out = append(out, domain.Span{Field: domain.FieldPath, Start: i, End: i + 1})
			}
		}
	}
	return mergeSpans(out)
}

// phraseSpans finds phrases in text. Offsets come from the lowercased
// text and are dropped if lowercasing changed the length.
func phraseSpans(text string, phrases []string, field domain.Field) []domain.Span {
	lower := strings.ToLower(text)
	if len(lower) != len(text) {
		return nil
	}
	var out []domain.Span
	for _, p := range phrases {
		for from := 0; ; {
			i := strings.Index(lower[from:], p)
			if i < 0 || p == "" {
				break
			}
			out = append(out, domain.Span{Field: field, Start: from + i, End: from + i + len(p)})
			from += i + len(p)
		}
	}
	return out
}

// snippetLine picks the first body line with a match and the byte
// offset of that match. Without a match it returns the first
// non-empty line.
func (c *compiledQuery) snippetLine(body string) (string, int) {
	first := ""
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if first == "" {
			first = line
		}
		if spans := c.spans(line, domain.FieldBody); len(spans) > 0 {
			return line, spans[0].Start
		}
	}
	return first, 0
}

// cutSnippet trims line to SnippetWidth around the match at start,
// on token boundaries, and returns the spans inside the result.
func (c *compiledQuery) cutSnippet(line string, start int) (string, []domain.Span) {
	if line == "" {
		return "", nil
	}
	prefix, suffix := "", ""
	if len(line) > SnippetWidth {
		from := start - SnippetWidth/4
		if from < 0 {
			from = 0
		}
		to := from + SnippetWidth
		if to > len(line) {
			to = len(line)
			from = max(0, to-SnippetWidth)
		}
		for from > 0 && !isBoundary(line, from) {
			from--
		}
		for to < len(line) && !isBoundary(line, to) {
			to++
		}
		if from > 0 {
			prefix = "..."
		}
		if to < len(line) {
			suffix = "..."
		}
		line = line[from:to]
	}

	spans := c.spans(line, domain.FieldBody)
	for i := range spans {
		spans[i].Start += len(prefix)
		spans[i].End += len(prefix)
	}
	return prefix + line + suffix, spans
}

func isBoundary(s string, i int) bool {
	return s[i] == ' ' || s[i-1] == ' '
}

// mergeSpans sorts spans and joins overlapping ones.
func mergeSpans(spans []domain.Span) []domain.Span {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End && s.Field == last.Field {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
