package domain

import "time"

// Field identifies a searchable part of a document.
type Field int

const (
	// FieldAny matches a term against every field.
	FieldAny Field = iota
	// FieldTitle is the document title.
	FieldTitle
	// FieldHeading covers every heading and front matter tag.
	FieldHeading
	// FieldPath is the path relative to the scan root.
	FieldPath
	// FieldBody is the plain text body.
	FieldBody
)

// String returns the query prefix used for the field.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldHeading:
		return "heading"
	case FieldPath:
		return "path"
	case FieldBody:
		return "body"
	default:
		return "any"
	}
}

// ParseField maps a query prefix to a field.
func ParseField(s string) (Field, bool) {
	switch s {
	case "title":
		return FieldTitle, true
	case "heading", "h":
		return FieldHeading, true
	case "path":
		return FieldPath, true
	case "body":
		return FieldBody, true
	}
	return FieldAny, false
}

// Term is one parsed query term.
type Term struct {
	// Text is the lowercased term.
	Text string

	// Field restricts the term to one field. FieldAny matches all.
	Field Field

	// Exclude rejects documents matching the term.
	Exclude bool
}

// Query is a parsed search query. It lives for a single keystroke.
type Query struct {
	// Raw is the text typed by the user.
	Raw string

	// Terms are the individual words.
	Terms []Term

	// Phrases are quoted, lowercased substrings.
	Phrases []string
}

// IsEmpty reports whether the query has nothing to match.
func (q Query) IsEmpty() bool {
	return len(q.Terms) == 0 && len(q.Phrases) == 0
}

// Positive returns the non-excluded terms.
func (q Query) Positive() []Term {
	out := make([]Term, 0, len(q.Terms))
	for _, t := range q.Terms {
		if !t.Exclude {
			out = append(out, t)
		}
	}
	return out
}

// Excluded returns the terms prefixed with "-".
func (q Query) Excluded() []Term {
	var out []Term
	for _, t := range q.Terms {
		if t.Exclude {
			out = append(out, t)
		}
	}
	return out
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero or less means no limit.
	Limit int
}

// Span is a byte range of a matched term inside a rendered field.
type Span struct {
	Field Field
	Start int
	End   int
}

// SearchResult represents a single search hit.
// It refers to its document by path only; the document itself is
// looked up from the index when needed.
type SearchResult struct {
	// Path is the document key.
	Path string

	// RelPath and Title are copied for display.
	RelPath string
	Title   string

	// ModTime and Size are copied for display and tie-breaking.
	ModTime time.Time
	Size    int64

	// Score is the relevance score. Zero for the empty query.
	Score float64

	// Spans locate matched terms in Title and RelPath.
	Spans []Span

	// Snippet is one line of body text around the first body match.
	Snippet string

	// SnippetSpans locate matched terms inside Snippet.
	SnippetSpans []Span
}

// SpansFor returns the spans that belong to field.
func (r *SearchResult) SpansFor(field Field) []Span {
	var out []Span
	for _, s := range r.Spans {
		if s.Field == field {
			out = append(out, s)
		}
	}
	return out
}
