package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		terms   []domain.Term
		phrases []string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   \t "},
		{
			name:  "words are lowercased",
			raw:   "Hello  World",
			terms: []domain.Term{{Text: "hello"}, {Text: "world"}},
		},
		{
			name:  "punctuation splits words",
			raw:   "set-up",
			terms: []domain.Term{{Text: "set"}, {Text: "up"}},
		},
		{
			name:  "exclusion",
			raw:   "go -draft",
			terms: []domain.Term{{Text: "go"}, {Text: "draft", Exclude: true}},
		},
		{
			name:    "phrase",
			raw:     `"Getting   Started" guide`,
			terms:   []domain.Term{{Text: "guide"}},
			phrases: []string{"getting started"},
		},
		{
			name: "field prefixes",
			raw:  "title:api heading:Setup path:docs body:token h:intro",
			terms: []domain.Term{
				{Text: "api", Field: domain.FieldTitle},
				{Text: "setup", Field: domain.FieldHeading},
				{Text: "docs", Field: domain.FieldPath},
				{Text: "token", Field: domain.FieldBody},
				{Text: "intro", Field: domain.FieldHeading},
			},
		},
		{
			name:  "excluded field term",
			raw:   "-path:archive",
			terms: []domain.Term{{Text: "archive", Field: domain.FieldPath, Exclude: true}},
		},
		{
			name:  "field with quoted words",
			raw:   `title:"release notes"`,
			terms: []domain.Term{{Text: "release", Field: domain.FieldTitle}, {Text: "notes", Field: domain.FieldTitle}},
		},
		{
			name:  "unknown prefix is plain text",
			raw:   "https://example.com",
			terms: []domain.Term{{Text: "https"}, {Text: "example"}, {Text: "com"}},
		},
		{name: "empty phrase is dropped", raw: `""`},
		{name: "symbols only", raw: "!!! ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.raw, q.Raw)
			assert.Equal(t, tt.terms, q.Terms)
			assert.Equal(t, tt.phrases, q.Phrases)
		})
	}
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		pos    int
		reason string
	}{
		{"unterminated quote", `go "getting started`, 3, "unterminated quote"},
		{"empty field", "title:", 0, "empty title: filter"},
		{"empty field before space", "go path: x", 3, "empty path: filter"},
		{"lone minus", "go -", 3, "nothing to exclude"},
		{"minus before space", "- go", 0, "nothing to exclude"},
		{"excluded phrase", `-"a b"`, 0, "phrases cannot be excluded"},
		{"unterminated field phrase", `title:"abc`, 6, "unterminated quote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))

			qe, ok := domain.AsQueryError(err)
			require.True(t, ok)
			assert.Equal(t, tt.pos, qe.Pos)
			assert.Equal(t, tt.reason, qe.Reason)
			assert.NotEmpty(t, qe.Hint)
			assert.True(t, q.IsEmpty())
		})
	}
}
