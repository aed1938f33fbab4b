package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// cancelCheckInterval is how many candidates are scored between
// context checks.
const cancelCheckInterval = 256

// SearchService answers queries from the in-memory index.
// It never touches the file system.
type SearchService struct {
	index *index.Index
}

// NewSearchService creates a new search service over idx.
func NewSearchService(idx *index.Index) *SearchService {
	return &SearchService{index: idx}
}

type scoredDoc struct {
	doc   *domain.Document
	score float64
}

// Search runs query against the current index snapshot.
// Results are ordered by score, then most recently modified, then path.
// A malformed query returns an empty slice and a *domain.QueryError.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Debug("Query: %q (limit %d)", query, opts.Limit)

	q, err := ParseQuery(query)
	if err != nil {
		logger.Debug("Invalid query: %v", err)
		return []domain.SearchResult{}, err
	}

	snap := s.index.Snapshot()
	cq := compileQuery(q)

	if q.IsEmpty() {
		docs := snap.Documents()
		results := make([]domain.SearchResult, 0, limitOf(len(docs), opts.Limit))
		for _, d := range docs[:limitOf(len(docs), opts.Limit)] {
			results = append(results, cq.result(d, 0))
		}
		return results, nil
	}

	candidates := cq.candidates(snap)
	logger.Debug("Candidates: %d of %d documents", len(candidates), snap.Len())

	scored := make([]scoredDoc, 0, len(candidates))
	for i, d := range candidates {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return []domain.SearchResult{}, err
			}
		}
		if score, ok := cq.score(d); ok {
			scored = append(scored, scoredDoc{doc: d, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return domain.Newer(scored[i].doc, scored[j].doc)
	})

	n := limitOf(len(scored), opts.Limit)
	results := make([]domain.SearchResult, 0, n)
	for _, sd := range scored[:n] {
		results = append(results, cq.result(sd.doc, sd.score))
	}
	logger.Debug("Matched %d, returning %d", len(scored), len(results))
	return results, nil
}

func limitOf(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}

func (c *compiledQuery) result(d *domain.Document, score float64) domain.SearchResult {
	r := domain.SearchResult{
		Path:    d.Path,
		RelPath: d.RelPath,
		Title:   d.Title,
		ModTime: d.ModTime,
		Size:    d.Size,
		Score:   score,
	}
	c.highlight(&r, d)
	return r
}

// candidates narrows the snapshot to documents that can match every
// positive term, using vocabulary lookups and a fuzzy pass over paths.
// Without positive terms every document is a candidate.
func (c *compiledQuery) candidates(snap *index.Snapshot) []*domain.Document {
	if len(c.positive) == 0 {
		return snap.Documents()
	}

	var acc map[string]struct{}
	for _, t := range c.positive {
		set := snap.Candidates(t.matcher)
		if t.applies(domain.FieldPath) && len(t.Text) >= 2 {
			for _, p := range fuzzyPaths(t.Text, snap) {
				set[p] = struct{}{}
			}
		}
		if acc == nil {
			acc = set
			continue
		}
		for p := range acc {
			if _, ok := set[p]; !ok {
				delete(acc, p)
			}
		}
		if len(acc) == 0 {
			return nil
		}
	}

	docs := make([]*domain.Document, 0, len(acc))
	for p := range acc {
		if d, ok := snap.Get(p); ok {
			docs = append(docs, d)
		}
	}
	return docs
}

type relPathSource []*domain.Document

func (s relPathSource) String(i int) string { return s[i].RelPath }
func (s relPathSource) Len() int            { return len(s) }

func fuzzyPaths(term string, snap *index.Snapshot) []string {
	docs := snap.Documents()
	matches := fuzzy.FindFrom(strings.ToLower(term), relPathSource(docs))
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = docs[m.Index].Path
	}
	return out
}
