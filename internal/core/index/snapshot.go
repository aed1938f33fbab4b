package index

import (
	"sort"
	"strings"
	"time"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

type pathSet map[string]struct{}

// Snapshot is an immutable view of the index. Every method is safe
// for concurrent use.
type Snapshot struct {
	docs     map[string]*domain.Document
	postings map[string]pathSet
	vocab    []string
	stems    map[string][]string
	recent   []*domain.Document
	builtAt  time.Time
}

// NewSnapshot builds a snapshot from docs. A later document with the
// same path replaces an earlier one.
func NewSnapshot(docs []*domain.Document) *Snapshot {
	s := &Snapshot{
		docs:     make(map[string]*domain.Document, len(docs)),
		postings: make(map[string]pathSet),
		stems:    make(map[string][]string),
		builtAt:  time.Now(),
	}
	for _, d := range docs {
		s.docs[d.Path] = d
	}
	for _, d := range s.docs {
		for t := range d.Tokens() {
			set, ok := s.postings[t]
			if !ok {
				set = make(pathSet)
				s.postings[t] = set
			}
			set[d.Path] = struct{}{}
		}
	}

	s.vocab = make([]string, 0, len(s.postings))
	for t := range s.postings {
		s.vocab = append(s.vocab, t)
	}
	sort.Strings(s.vocab)
	for _, t := range s.vocab {
		st := Stem(t)
		s.stems[st] = append(s.stems[st], t)
	}

	s.sortRecent()
	return s
}

func (s *Snapshot) sortRecent() {
	s.recent = make([]*domain.Document, 0, len(s.docs))
	for _, d := range s.docs {
		s.recent = append(s.recent, d)
	}
	sort.Slice(s.recent, func(i, j int) bool {
		return domain.Newer(s.recent[i], s.recent[j])
	})
}

// Len returns the number of documents.
func (s *Snapshot) Len() int {
	return len(s.docs)
}

// TermCount returns the vocabulary size.
func (s *Snapshot) TermCount() int {
	return len(s.vocab)
}

// BuiltAt returns when the snapshot was published.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Get returns the document stored under path.
func (s *Snapshot) Get(path string) (*domain.Document, bool) {
	d, ok := s.docs[path]
	return d, ok
}

// Documents returns every document, most recently modified first,
// ties broken by path. The slice must not be modified.
func (s *Snapshot) Documents() []*domain.Document {
	return s.recent
}

// Paths returns the paths of the documents containing token, sorted.
func (s *Snapshot) Paths(token string) []string {
	set := s.postings[token]
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MatchingTokens returns the vocabulary tokens that m matches with a
// non-zero quality, sorted.
func (s *Snapshot) MatchingTokens(m *TermMatcher) []string {
	if m.Term() == "" {
		return nil
	}
	if m.NeedsScan() {
		var out []string
		for _, t := range s.vocab {
			if m.Quality(t) > 0 {
				out = append(out, t)
			}
		}
		return out
	}

	seen := make(map[string]struct{})
	i := sort.SearchStrings(s.vocab, m.Term())
	for ; i < len(s.vocab) && strings.HasPrefix(s.vocab[i], m.Term()); i++ {
		seen[s.vocab[i]] = struct{}{}
	}
	for _, t := range s.stems[m.StemKey()] {
		seen[t] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Candidates returns the paths of documents containing any token that
// m matches.
func (s *Snapshot) Candidates(m *TermMatcher) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range s.MatchingTokens(m) {
		for p := range s.postings[t] {
			out[p] = struct{}{}
		}
	}
	return out
}

// consistent reports whether postings and documents agree. Used by tests.
func (s *Snapshot) consistent() bool {
	for t, set := range s.postings {
		if len(set) == 0 {
			return false
		}
		for p := range set {
			d, ok := s.docs[p]
			if !ok || !d.Tokens().Has(t) {
				return false
			}
		}
	}
	for p, d := range s.docs {
		for t := range d.Tokens() {
			if _, ok := s.postings[t][p]; !ok {
				return false
			}
		}
	}
	return len(s.vocab) == len(s.postings) && len(s.recent) == len(s.docs)
}
