package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestField_String tests field names
func TestField_String(t *testing.T) {
	tests := []struct {
		field Field
		want  string
	}{
		{FieldAny, "any"},
		{FieldTitle, "title"},
		{FieldHeading, "heading"},
		{FieldPath, "path"},
		{FieldBody, "body"},
		{Field(99), "any"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.String())
		})
	}
}

// TestParseField tests prefix parsing
func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want Field
		ok   bool
	}{
		{"title", FieldTitle, true},
		{"heading", FieldHeading, true},
		{"h", FieldHeading, true},
		{"path", FieldPath, true},
		{"body", FieldBody, true},
		{"author", FieldAny, false},
		{"", FieldAny, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseField(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

// TestQuery_IsEmpty tests empty detection
func TestQuery_IsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty())
	assert.True(t, Query{Raw: "   "}.IsEmpty())
	assert.False(t, Query{Terms: []Term{{Text: "a"}}}.IsEmpty())
	assert.False(t, Query{Phrases: []string{"a b"}}.IsEmpty())
}

// TestQuery_Positive tests splitting terms by exclusion
func TestQuery_Positive(t *testing.T) {
	q := Query{Terms: []Term{
		{Text: "go"},
		{Text: "draft", Exclude: true},
		{Text: "api", Field: FieldTitle},
	}}

	pos := q.Positive()
	assert.Len(t, pos, 2)
	assert.Equal(t, "go", pos[0].Text)
	assert.Equal(t, "api", pos[1].Text)

	excluded := q.Excluded()
	assert.Len(t, excluded, 1)
	assert.Equal(t, "draft", excluded[0].Text)
	assert.Empty(t, Query{}.Excluded())
}

// TestSearchResult_SpansFor tests span filtering
func TestSearchResult_SpansFor(t *testing.T) {
	r := &SearchResult{Spans: []Span{
		{Field: FieldTitle, Start: 0, End: 5},
		{Field: FieldPath, Start: 2, End: 4},
		{Field: FieldTitle, Start: 6, End: 9},
	}}

	assert.Len(t, r.SpansFor(FieldTitle), 2)
	assert.Len(t, r.SpansFor(FieldPath), 1)
	assert.Empty(t, r.SpansFor(FieldBody))
}

// TestChangeType_String tests change names
func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(42).String())
}
