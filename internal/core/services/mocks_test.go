package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
)

const testRoot = "/notes"

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// --- Mock implementations ---

type memFile struct {
	content string
	modTime time.Time
}

// memFS implements driven.FileScanner and driven.DocumentLoader over
// an in-memory tree rooted at testRoot.
type memFS struct {
	mu       sync.Mutex
	files    map[string]memFile
	readErr  map[string]error
	scanErr  error
	loadHook func(path string)
}

func newMemFS() *memFS {
	return &memFS{files: make(map[string]memFile), readErr: make(map[string]error)}
}

func (m *memFS) write(rel, content string, age time.Duration) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Join(testRoot, rel)
	m.files[p] = memFile{content: content, modTime: testTime.Add(-age)}
	return p
}

func (m *memFS) remove(rel string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Join(testRoot, rel)
	delete(m.files, p)
	return p
}

func (m *memFS) Root() string { return testRoot }

func (m *memFS) Validate(_ context.Context) error {
	if m.scanErr != nil {
		return &domain.ScanError{Root: testRoot, Err: m.scanErr}
	}
	return nil
}

func (m *memFS) Scan(_ context.Context) (<-chan domain.FileInfo, <-chan error) {
	m.mu.Lock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		if m.Accepts(p) {
			paths = append(paths, p)
		}
	}
	m.mu.Unlock()
	sort.Strings(paths)

	files := make(chan domain.FileInfo, len(paths))
	errs := make(chan error, 1)
	for _, p := range paths {
		files <- domain.FileInfo{Path: p}
	}
	close(files)
	close(errs)
	return files, errs
}

func (m *memFS) Accepts(path string) bool {
	return strings.HasSuffix(path, ".md") && !strings.Contains(path, "/.")
}

func (m *memFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		return true
	}
	for p := range m.files {
		if strings.HasPrefix(p, path+"/") {
			return true
		}
	}
	return false
}

func (m *memFS) Load(_ context.Context, path string) (*domain.RawDocument, error) {
	if m.loadHook != nil {
		m.loadHook(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[path]; err != nil {
		return nil, &domain.FileReadError{Path: path, Err: err}
	}
	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	rel, _ := filepath.Rel(testRoot, path)
	return &domain.RawDocument{
		FileInfo: domain.FileInfo{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Title:   strings.TrimSuffix(filepath.Base(path), ".md"),
			Size:    int64(len(f.content)),
			ModTime: f.modTime,
		},
		Content: []byte(f.content),
	}, nil
}

// stubParser treats "# " lines as level-1 headings and everything else
// as body text.
type stubParser struct{}

var errBadMarkdown = errors.New("bad markdown")

func (stubParser) Parse(_ context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	content := string(raw.Content)
	if strings.Contains(content, "!!broken!!") {
		return nil, errBadMarkdown
	}
	doc := &domain.Document{
		Path:    raw.Path,
		RelPath: raw.RelPath,
		Title:   raw.Title,
		Content: content,
		Size:    raw.Size,
		ModTime: raw.ModTime,
	}
	var body, headings []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "# ") {
			h := strings.TrimPrefix(line, "# ")
			if len(doc.Headings) == 0 {
				doc.Title = h
			}
			doc.Headings = append(doc.Headings, domain.Heading{Level: 1, Text: h})
			headings = append(headings, h)
			continue
		}
		body = append(body, line)
	}
	doc.Body = strings.TrimSpace(strings.Join(body, "\n"))
	doc.TitleTerms = index.Terms(doc.Title)
	doc.HeadingTerms = index.Terms(strings.Join(headings, " "))
	doc.PathTerms = index.Terms(doc.RelPath)
	doc.BodyTerms = index.Terms(doc.Body)
	return doc, nil
}

// mockWatcher implements driven.ChangeWatcher.
type mockWatcher struct {
	changes chan domain.FileChange
	err     error
	closed  bool
}

func (w *mockWatcher) Watch(_ context.Context) (<-chan domain.FileChange, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.changes, nil
}

func (w *mockWatcher) Close() error {
	w.closed = true
	return nil
}

// mockClipboard implements driven.Clipboard.
type mockClipboard struct {
	text string
	err  error
}

func (c *mockClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// mockOpener implements driven.Opener.
type mockOpener struct {
	opened string
	err    error
}

func (o *mockOpener) Open(_ context.Context, path string) error {
	if o.err != nil {
		return o.err
	}
	o.opened = path
	return nil
}

var (
	_ driven.FileScanner    = (*memFS)(nil)
	_ driven.DocumentLoader = (*memFS)(nil)
	_ driven.Parser         = stubParser{}
	_ driven.ChangeWatcher  = (*mockWatcher)(nil)
	_ driven.Clipboard      = (*mockClipboard)(nil)
	_ driven.Opener         = (*mockOpener)(nil)
)

// fixture wires the services over a memFS.
type fixture struct {
	fs      *memFS
	index   *index.Index
	indexer *IndexService
	search  *SearchService
	docs    *DocumentService
}

func newFixture() *fixture {
	mfs := newMemFS()
	idx := index.New()
	return &fixture{
		fs:      mfs,
		index:   idx,
		indexer: NewIndexService(idx, mfs, mfs, stubParser{}),
		search:  NewSearchService(idx),
		docs:    NewDocumentService(idx),
	}
}

func paths(results []domain.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.RelPath
	}
	return out
}
