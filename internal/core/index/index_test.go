package index

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func makeDoc(path, title, body string, age time.Duration) *domain.Document {
	return &domain.Document{
		Path:       path,
		RelPath:    filepath.Base(path),
		Title:      title,
		Content:    body,
		Body:       body,
		TitleTerms: Terms(title),
		PathTerms:  Terms(filepath.Base(path)),
		BodyTerms:  Terms(body),
		ModTime:    baseTime.Add(-age),
	}
}

func TestNew_Empty(t *testing.T) {
	idx := New()
	s := idx.Snapshot()

	require.NotNil(t, s)
	assert.Zero(t, s.Len())
	assert.Zero(t, s.TermCount())
	assert.Empty(t, s.Documents())
	assert.True(t, s.consistent())
}

func TestReplace(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{
		makeDoc("/n/a.md", "alpha", "shared words", time.Hour),
		makeDoc("/n/b.md", "beta", "shared text", 0),
	})

	s := idx.Snapshot()
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"/n/a.md", "/n/b.md"}, s.Paths("shared"))
	assert.Equal(t, "/n/b.md", s.Documents()[0].Path, "newest first")
	assert.True(t, s.consistent())

	idx.Replace(nil)
	assert.Zero(t, idx.Snapshot().Len())
}

func TestUpsert_ReplacesOldTokens(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{
		makeDoc("/n/a.md", "alpha", "old content", 0),
		makeDoc("/n/b.md", "beta", "content", 0),
	})
	before := idx.Snapshot()

	idx.Upsert(makeDoc("/n/a.md", "alpha", "new words", 0))
	after := idx.Snapshot()

	assert.Empty(t, after.Paths("old"))
	assert.Equal(t, []string{"/n/a.md"}, after.Paths("new"))
	assert.Equal(t, []string{"/n/b.md"}, after.Paths("content"))
	assert.True(t, after.consistent())

	// The published snapshot is never touched.
	assert.Equal(t, []string{"/n/a.md"}, before.Paths("old"))
	assert.Equal(t, []string{"/n/a.md", "/n/b.md"}, before.Paths("content"))
	assert.True(t, before.consistent())
}

func TestUpsert_NewDocument(t *testing.T) {
	idx := New()
	idx.Upsert(makeDoc("/n/a.md", "alpha", "hello", 0))
	idx.Upsert(makeDoc("/n/b.md", "beta", "hello again", 0))

	s := idx.Snapshot()
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"/n/a.md", "/n/b.md"}, s.Paths("hello"))
	assert.Contains(t, s.MatchingTokens(NewTermMatcher("again")), "again")
	assert.True(t, s.consistent())
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{
		makeDoc("/n/a.md", "alpha", "unique", 0),
		makeDoc("/n/b.md", "beta", "common", 0),
	})

	assert.True(t, idx.Remove("/n/a.md"))
	assert.False(t, idx.Remove("/n/a.md"))

	s := idx.Snapshot()
	_, ok := s.Get("/n/a.md")
	assert.False(t, ok)
	assert.Empty(t, s.Paths("unique"))
	assert.NotContains(t, s.MatchingTokens(NewTermMatcher("unique")), "unique")
	assert.True(t, s.consistent())
}

func TestRemoveTree(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{
		makeDoc("/n/docs/a.md", "a", "x", 0),
		makeDoc("/n/docs/sub/b.md", "b", "x", 0),
		makeDoc("/n/docs2/c.md", "c", "x", 0),
	})

	assert.Equal(t, 2, idx.RemoveTree("/n/docs"))
	assert.Zero(t, idx.RemoveTree("/n/docs"))

	s := idx.Snapshot()
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("/n/docs2/c.md")
	assert.True(t, ok)
	assert.True(t, s.consistent())
}

func TestMatchingTokens(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{
		makeDoc("/n/a.md", "go", "golang gopher goes going", 0),
	})
	s := idx.Snapshot()

	// Short terms use prefix and stem lookups only.
	assert.Equal(t, []string{"go", "goes", "going", "golang", "gopher"}, s.MatchingTokens(NewTermMatcher("go")))
	assert.Empty(t, s.MatchingTokens(NewTermMatcher("")))

	// Longer terms scan for substrings and typos.
	assert.Equal(t, []string{"golang"}, s.MatchingTokens(NewTermMatcher("lang")))
	assert.Equal(t, []string{"gopher"}, s.MatchingTokens(NewTermMatcher("gophr")))

	c := s.Candidates(NewTermMatcher("golang"))
	assert.Len(t, c, 1)
}

func TestIndex_ConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	idx := New()
	idx.Replace([]*domain.Document{makeDoc("/n/a.md", "a", "stable", 0)})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				s := idx.Snapshot()
				for _, p := range s.Paths("stable") {
					_, ok := s.Get(p)
					assert.True(t, ok)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			idx.Upsert(makeDoc("/n/b.md", "b", "stable churn", 0))
		} else {
			idx.Remove("/n/b.md")
		}
	}
	close(stop)
	wg.Wait()

	assert.True(t, idx.Snapshot().consistent())
}
