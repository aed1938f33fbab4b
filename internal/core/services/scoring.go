package services

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
)

// Field weights. Title and heading matches outrank body matches.
const (
	WeightTitle   = 4.0
	WeightHeading = 2.5
	WeightPath    = 1.5
	WeightBody    = 1.0

	// PhraseBonus is added per matched phrase.
	PhraseBonus = 2.0

	// QualityPathFuzzy is the quality of a subsequence match of a term
	// against the relative path, e.g. "gdoc" in "guides/docs.md".
	QualityPathFuzzy = 0.4
)

var scoredFields = []struct {
	field  domain.Field
	weight float64
}{
	{domain.FieldTitle, WeightTitle},
	{domain.FieldHeading, WeightHeading},
	{domain.FieldPath, WeightPath},
	{domain.FieldBody, WeightBody},
}

// Score rates doc against q. It reports false when doc does not match:
// a positive term or phrase is missing, or an excluded term is present.
//
// For each positive term the best match quality is taken per field
// (see index.TermMatcher) and weighted by field; the document score
// is the sum over terms plus PhraseBonus per phrase. Score depends on
// nothing but its arguments.
func Score(q domain.Query, doc *domain.Document) (float64, bool) {
	return compileQuery(q).score(doc)
}

type compiledTerm struct {
	domain.Term
	matcher *index.TermMatcher
}

func (t compiledTerm) applies(f domain.Field) bool {
	return t.Field == domain.FieldAny || t.Field == f
}

type compiledQuery struct {
	positive []compiledTerm
	excluded []compiledTerm
	phrases  []string
}

func compileQuery(q domain.Query) *compiledQuery {
	c := &compiledQuery{phrases: q.Phrases}
	for _, t := range q.Positive() {
		c.positive = append(c.positive, compiledTerm{Term: t, matcher: index.NewTermMatcher(t.Text)})
	}
	for _, t := range q.Excluded() {
		c.excluded = append(c.excluded, compiledTerm{Term: t, matcher: index.NewTermMatcher(t.Text)})
	}
	return c
}

func fieldTerms(doc *domain.Document, f domain.Field) domain.TermSet {
	switch f {
	case domain.FieldTitle:
		return doc.TitleTerms
	case domain.FieldHeading:
		return doc.HeadingTerms
	case domain.FieldPath:
		return doc.PathTerms
	default:
		return doc.BodyTerms
	}
}

// quality returns the best quality of t in field f of doc.
func (t compiledTerm) quality(doc *domain.Document, f domain.Field) float64 {
	q, _ := t.matcher.Best(fieldTerms(doc, f))
	if f == domain.FieldPath && q < QualityPathFuzzy && pathFuzzy(t.Text, doc.RelPath) {
		q = QualityPathFuzzy
	}
	return q
}

func pathFuzzy(term, relPath string) bool {
	if utf8.RuneCountInString(term) < 2 {
		return false
	}
	return len(fuzzy.Find(term, []string{relPath})) > 0
}

func (c *compiledQuery) score(doc *domain.Document) (float64, bool) {
	for _, t := range c.excluded {
		for _, sf := range scoredFields {
			if !t.applies(sf.field) {
				continue
			}
			// Exclusion ignores substring and typo matches.
			if q, _ := t.matcher.Best(fieldTerms(doc, sf.field)); q >= index.QualityPrefix {
				return 0, false
			}
		}
	}

	total := 0.0
	for _, t := range c.positive {
		termScore := 0.0
		for _, sf := range scoredFields {
			if t.applies(sf.field) {
				termScore += sf.weight * t.quality(doc, sf.field)
			}
		}
		if termScore == 0 {
			return 0, false
		}
		total += termScore
	}

	if len(c.phrases) > 0 {
		text := phraseText(doc)
		for _, p := range c.phrases {
			if !strings.Contains(text, p) {
				return 0, false
			}
			total += PhraseBonus
		}
	}

	return total, true
}

// phraseText is the lowercased title, headings and body with
// whitespace collapsed, the text phrases are matched against.
func phraseText(doc *domain.Document) string {
	var b strings.Builder
	b.WriteString(doc.Title)
	for _, h := range doc.Headings {
		b.WriteByte('\n')
		b.WriteString(h.Text)
	}
	b.WriteByte('\n')
	b.WriteString(doc.Body)
	return normalisePhrase(b.String())
}
