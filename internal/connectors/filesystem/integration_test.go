package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/connectors/filesystem"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/services"
	"github.com/kugarocks/markdown-finder/internal/normalisers/markdown"
)

// stack wires the real adapters the way cmd/mdf does.
type stack struct {
	root    string
	scanner *filesystem.Scanner
	indexer *services.IndexService
	search  *services.SearchService
}

func newStack(t *testing.T, root string, opts filesystem.Options) *stack {
	t.Helper()
	scanner, err := filesystem.NewScanner(root, opts)
	require.NoError(t, err)

	idx := index.New()
	loader := filesystem.NewLoader(scanner.Root(), opts.MaxFileSize)
	return &stack{
		root:    scanner.Root(),
		scanner: scanner,
		indexer: services.NewIndexService(idx, scanner, loader, markdown.New()),
		search:  services.NewSearchService(idx),
	}
}

func (s *stack) rebuild(t *testing.T) domain.BuildReport {
	t.Helper()
	report, err := s.indexer.Rebuild(context.Background())
	require.NoError(t, err)
	return report
}

func (s *stack) query(t *testing.T, q string) []string {
	t.Helper()
	results, err := s.search.Search(context.Background(), q, domain.SearchOptions{})
	require.NoError(t, err)
	rels := make([]string, 0, len(results))
	for _, r := range results {
		rels = append(rels, r.RelPath)
	}
	return rels
}

func (s *stack) scanned(t *testing.T) []string {
	t.Helper()
	files, errs := s.scanner.Scan(context.Background())
	var rels []string
	for f := range files {
		rels = append(rels, f.RelPath)
	}
	for err := range errs {
		t.Errorf("scan: %v", err)
	}
	sort.Strings(rels)
	return rels
}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func sorted(rels []string) []string {
	out := append([]string(nil), rels...)
	sort.Strings(out)
	return out
}

func TestIntegration_TitleMatchRanksFirst(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# Hello World\n\nSome text.\n")
	write(t, root, "b.md", "# Notes\n\nI said hello once.\n")
	write(t, root, "c.md", "# Unrelated\n\nNothing here.\n")

	s := newStack(t, root, filesystem.Options{})
	report := s.rebuild(t)

	assert.Equal(t, 3, report.Indexed)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, []string{"a.md", "b.md"}, s.query(t, "hello"))
	assert.Equal(t, []string{"b.md"}, s.query(t, "hello -world"))
	assert.Equal(t, []string{"a.md"}, s.query(t, `"hello world"`))
}

func TestIntegration_EmptyQueryListsScannedFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# A")
	write(t, root, "docs/guide.markdown", "# Guide")
	write(t, root, "drafts/wip.md", "# WIP")
	write(t, root, ".hidden/secret.md", "# Secret")
	write(t, root, "notes.txt", "not markdown")

	s := newStack(t, root, filesystem.Options{Exclude: []string{"drafts"}})
	s.rebuild(t)

	scanned := s.scanned(t)
	assert.Equal(t, []string{"a.md", "docs/guide.markdown"}, scanned)
	assert.Equal(t, scanned, sorted(s.query(t, "")))
}

func TestIntegration_UpdateOne(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a.md", "# Alpha")
	write(t, root, "b.md", "# Beta")

	s := newStack(t, root, filesystem.Options{})
	s.rebuild(t)
	ctx := context.Background()

	t.Run("deleted file is removed", func(t *testing.T) {
		require.NoError(t, os.Remove(a))
		require.NoError(t, s.indexer.UpdateOne(ctx, a))

		assert.Equal(t, []string{"b.md"}, s.query(t, ""))
		assert.Empty(t, s.query(t, "alpha"))
	})

	t.Run("edited file is re-read", func(t *testing.T) {
		b := write(t, root, "b.md", "# Gamma")
		require.NoError(t, s.indexer.UpdateOne(ctx, b))

		assert.Equal(t, []string{"b.md"}, s.query(t, "gamma"))
		assert.Empty(t, s.query(t, "beta"))
	})

	t.Run("new file is added", func(t *testing.T) {
		d := write(t, root, "sub/d.md", "# Delta")
		require.NoError(t, s.indexer.UpdateOne(ctx, d))

		assert.Equal(t, []string{"sub/d.md"}, s.query(t, "delta"))
	})

	t.Run("removed directory drops its documents", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(root, "sub")))
		require.NoError(t, s.indexer.UpdateOne(ctx, filepath.Join(root, "sub")))

		assert.Equal(t, []string{"b.md"}, s.query(t, ""))
	})

	t.Run("index matches a fresh build", func(t *testing.T) {
		fresh := newStack(t, root, filesystem.Options{})
		fresh.rebuild(t)

		assert.Equal(t, sorted(fresh.query(t, "")), sorted(s.query(t, "")))
	})
}

func TestIntegration_Symlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := write(t, outside, "target.md", "# Linked")
	write(t, root, "a.md", "# A")

	link := filepath.Join(root, "link.md")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	ctx := context.Background()

	t.Run("not followed", func(t *testing.T) {
		s := newStack(t, root, filesystem.Options{})
		s.rebuild(t)
		require.NoError(t, s.indexer.UpdateOne(ctx, link))

		assert.Equal(t, []string{"a.md"}, s.query(t, ""))
		assert.Equal(t, s.scanned(t), sorted(s.query(t, "")))
	})

	t.Run("followed", func(t *testing.T) {
		s := newStack(t, root, filesystem.Options{FollowSymlinks: true})
		s.rebuild(t)

		assert.Equal(t, []string{"link.md"}, s.query(t, "linked"))
		require.NoError(t, s.indexer.UpdateOne(ctx, link))
		assert.Equal(t, s.scanned(t), sorted(s.query(t, "")))
	})
}

// updateWithin runs UpdateOne and fails the test if it has not
// returned after d.
func updateWithin(t *testing.T, s *stack, path string, d time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- s.indexer.UpdateOne(context.Background(), path) }()
	select {
	case err := <-done:
		return err
	case <-time.After(d):
		t.Fatalf("UpdateOne(%s) still running after %v", path, d)
		return nil
	}
}
