package index

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// Index owns the current snapshot. Reads are lock-free; writes are
// serialised and published by swapping the snapshot pointer.
type Index struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New returns an empty index.
func New() *Index {
	idx := &Index{}
	idx.current.Store(NewSnapshot(nil))
	return idx
}

// Snapshot returns the current snapshot.
func (i *Index) Snapshot() *Snapshot {
	return i.current.Load()
}

// Replace publishes a snapshot holding exactly docs.
func (i *Index) Replace(docs []*domain.Document) *Snapshot {
	s := NewSnapshot(docs)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.current.Store(s)
	return s
}

// Upsert adds doc or replaces the document with the same path.
func (i *Index) Upsert(doc *domain.Document) {
	i.mu.Lock()
	defer i.mu.Unlock()

	e := newEdit(i.current.Load())
	if old, ok := e.docs[doc.Path]; ok {
		e.unlink(old)
	}
	e.link(doc)
	i.current.Store(e.finish())
}

// Remove drops the document at path. It reports whether one existed.
func (i *Index) Remove(path string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	cur := i.current.Load()
	old, ok := cur.docs[path]
	if !ok {
		return false
	}
	e := newEdit(cur)
	e.unlink(old)
	i.current.Store(e.finish())
	return true
}

// RemoveTree drops every document at or below dir and returns how
// many were removed.
func (i *Index) RemoveTree(dir string) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cur := i.current.Load()
	prefix := strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)
	var gone []*domain.Document
	for p, d := range cur.docs {
		if p == dir || strings.HasPrefix(p, prefix) {
			gone = append(gone, d)
		}
	}
	if len(gone) == 0 {
		return 0
	}
	e := newEdit(cur)
	for _, d := range gone {
		e.unlink(d)
	}
	i.current.Store(e.finish())
	return len(gone)
}

// edit derives a new snapshot from a published one. Maps and sets
// that change are copied first so the base stays untouched.
type edit struct {
	base     *Snapshot
	docs     map[string]*domain.Document
	postings map[string]pathSet
	owned    map[string]bool
	added    []string
	removed  map[string]bool
}

func newEdit(base *Snapshot) *edit {
	e := &edit{
		base:     base,
		docs:     make(map[string]*domain.Document, len(base.docs)+1),
		postings: make(map[string]pathSet, len(base.postings)),
		owned:    make(map[string]bool),
		removed:  make(map[string]bool),
	}
	for p, d := range base.docs {
		e.docs[p] = d
	}
	for t, set := range base.postings {
		e.postings[t] = set
	}
	return e
}

func (e *edit) set(token string) pathSet {
	if e.owned[token] {
		return e.postings[token]
	}
	cp := make(pathSet, len(e.postings[token])+1)
	for p := range e.postings[token] {
		cp[p] = struct{}{}
	}
	e.postings[token] = cp
	e.owned[token] = true
	return cp
}

func (e *edit) unlink(d *domain.Document) {
	for t := range d.Tokens() {
		if _, ok := e.postings[t]; !ok {
			continue
		}
		set := e.set(t)
		delete(set, d.Path)
		if len(set) == 0 {
			delete(e.postings, t)
			delete(e.owned, t)
			e.removed[t] = true
		}
	}
	delete(e.docs, d.Path)
}

func (e *edit) link(d *domain.Document) {
	for t := range d.Tokens() {
		if _, ok := e.postings[t]; !ok {
			if _, existed := e.base.postings[t]; !existed {
				e.added = append(e.added, t)
			}
			delete(e.removed, t)
		}
		e.set(t)[d.Path] = struct{}{}
	}
	e.docs[d.Path] = d
}

func (e *edit) finish() *Snapshot {
	s := &Snapshot{
		docs:     e.docs,
		postings: e.postings,
		vocab:    e.base.vocab,
		stems:    e.base.stems,
		builtAt:  time.Now(),
	}

	// Tokens that were removed and re-added are still in the base vocab.
	var fresh []string
	for _, t := range e.added {
		if _, ok := e.postings[t]; ok {
			fresh = append(fresh, t)
		}
	}
	var dropped []string
	for t := range e.removed {
		if _, ok := e.base.postings[t]; ok {
			dropped = append(dropped, t)
		}
	}

	if len(fresh) > 0 || len(dropped) > 0 {
		s.vocab = make([]string, 0, len(e.postings))
		for t := range e.postings {
			s.vocab = append(s.vocab, t)
		}
		sort.Strings(s.vocab)

		s.stems = make(map[string][]string, len(e.base.stems))
		for k, v := range e.base.stems {
			s.stems[k] = v
		}
		for _, t := range dropped {
			st := Stem(t)
			s.stems[st] = without(s.stems[st], t)
			if len(s.stems[st]) == 0 {
				delete(s.stems, st)
			}
		}
		for _, t := range fresh {
			st := Stem(t)
			s.stems[st] = append(append([]string(nil), s.stems[st]...), t)
		}
	}

	s.sortRecent()
	return s
}

func without(list []string, t string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != t {
			out = append(out, v)
		}
	}
	return out
}
