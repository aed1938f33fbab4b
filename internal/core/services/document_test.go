package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

func TestDocumentService_Get(t *testing.T) {
	f := newFixture()
	p := f.fs.write("a.md", "# Title\nbody", 0)
	buildFixture(t, f)

	doc, err := f.docs.Get(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Title", doc.Title)
	assert.Equal(t, "# Title\nbody", doc.Content)

	_, err = f.docs.Get(context.Background(), "/notes/missing.md")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDocumentService_List(t *testing.T) {
	f := newFixture()
	f.fs.write("old.md", "x", time.Hour)
	f.fs.write("new.md", "x", 0)
	buildFixture(t, f)

	docs, err := f.docs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "new.md", docs[0].RelPath)
	assert.Equal(t, "old.md", docs[1].RelPath)

	// The returned slice is a copy.
	docs[0] = nil
	again, _ := f.docs.List(context.Background())
	assert.NotNil(t, again[0])
}
