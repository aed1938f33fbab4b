package domain

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// FileInfo is the lightweight metadata the scanner extracts for a
// candidate markdown file. It is produced without reading file content.
type FileInfo struct {
	// Path is the absolute, cleaned file path. It is the document key.
	Path string

	// RelPath is the slash-separated path relative to the scan root.
	RelPath string

	// Title is derived from the file name.
	Title string

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// RawDocument is the content of one file as read from disk,
// before markdown parsing.
type RawDocument struct {
	FileInfo

	// Content is the raw bytes.
	Content []byte
}

// Heading is a markdown heading.
type Heading struct {
	// Level is 1 for "#", 2 for "##" and so on.
	Level int

	// Text is the plain heading text.
	Text string
}

// CodeBlock is a fenced code block, kept verbatim for copying.
type CodeBlock struct {
	// Language is the first word of the info string, possibly empty.
	Language string

	// Content is the code without fences or trailing newline.
	Content string
}

// TermSet is a set of index tokens.
type TermSet map[string]struct{}

// NewTermSet builds a set from the given terms.
func NewTermSet(terms ...string) TermSet {
	s := make(TermSet, len(terms))
	for _, t := range terms {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether the set contains term.
func (s TermSet) Has(term string) bool {
	_, ok := s[term]
	return ok
}

// Sorted returns the terms in lexicographic order.
func (s TermSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Document represents an indexed markdown file.
// A Document is immutable once it has been published in an index;
// re-indexing a file produces a new Document.
type Document struct {
	// Path is the absolute file path and the unique key.
	Path string

	// RelPath is the slash-separated path relative to the scan root.
	RelPath string

	// Title is the first level-1 heading, the front matter title,
	// or the file name title.
	Title string

	// Headings lists every heading in document order.
	Headings []Heading

	// Tags come from front matter.
	Tags []string

	// CodeBlocks lists the fenced code blocks in document order.
	CodeBlocks []CodeBlock

	// Content is the raw markdown.
	Content string

	// Body is the plain text with headings and markup removed.
	Body string

	// TitleTerms, HeadingTerms, PathTerms and BodyTerms are the token
	// sets of each searchable field.
	TitleTerms   TermSet
	HeadingTerms TermSet
	PathTerms    TermSet
	BodyTerms    TermSet

	// Size is the file size in bytes.
	Size int64

	// ModTime is the last modification time.
	ModTime time.Time
}

// Tokens returns the union of all field token sets.
func (d *Document) Tokens() TermSet {
	out := make(TermSet, len(d.TitleTerms)+len(d.HeadingTerms)+len(d.PathTerms)+len(d.BodyTerms))
	for _, s := range []TermSet{d.TitleTerms, d.HeadingTerms, d.PathTerms, d.BodyTerms} {
		for t := range s {
			out[t] = struct{}{}
		}
	}
	return out
}

// IsEmpty reports whether the file had no content.
func (d *Document) IsEmpty() bool {
	return len(d.Content) == 0
}

// Newer orders documents by most recently modified first, then path.
// It is the tie-break used everywhere results are ordered.
func Newer(a, b *Document) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Path < b.Path
}

// TitleFromName derives a display title from a file name:
// "my_notes-2024.md" becomes "my notes 2024".
func TitleFromName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	title := strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	}), " ")
	if title == "" {
		return base
	}
	return title
}
