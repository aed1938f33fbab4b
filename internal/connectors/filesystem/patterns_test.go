package filesystem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

func TestGlobToRegex(t *testing.T) {
	tests := []struct {
		glob  string
		path  string
		match bool
	}{
		{"*.md", "a.md", true},
		{"*.md", "dir/a.md", false},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"docs/**", "docs/sub/a.md", true},
		{"**/draft.md", "draft.md", true},
		{"**/draft.md", "a/b/draft.md", true},
		{"a?c.md", "abc.md", true},
		{"a?c.md", "a/c.md", false},
		{"v1.0.md", "v1x0.md", false},
		{"notes+(old).md", "notes+(old).md", true},
	}

	for _, tt := range tests {
		t.Run(tt.glob+" "+tt.path, func(t *testing.T) {
			re, err := globToRegex(tt.glob)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.path))
		})
	}
}

func TestMatcher_MatchFile(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		rel     string
		want    bool
	}{
		{"no patterns", nil, nil, "a.md", true},
		{"base name exclude", nil, []string{"*.draft.md"}, "notes/x.draft.md", false},
		{"directory name exclude", nil, []string{"node_modules"}, "node_modules/pkg/readme.md", false},
		{"dir only exclude", nil, []string{"archive/"}, "archive/old.md", false},
		{"dir only ignores files", nil, []string{"archive.md/"}, "archive.md", true},
		{"path exclude", nil, []string{"docs/internal"}, "docs/internal/a.md", false},
		{"path exclude elsewhere", nil, []string{"docs/internal"}, "internal/a.md", true},
		{"anchored pattern", nil, []string{"/build"}, "build/a.md", false},
		{"include by path", []string{"docs/**"}, nil, "docs/a.md", true},
		{"include miss", []string{"docs/**"}, nil, "notes/a.md", false},
		{"exclude wins", []string{"docs/**"}, []string{"secret.md"}, "docs/secret.md", false},
		{"blank patterns ignored", []string{" "}, []string{""}, "a.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MatchFile(tt.rel))
		})
	}
}

func TestMatcher_ExcludedDir(t *testing.T) {
	m, err := NewMatcher(nil, []string{"vendor", "docs/old/"})
	require.NoError(t, err)

	assert.True(t, m.ExcludedDir("vendor"))
	assert.True(t, m.ExcludedDir("a/vendor"))
	assert.True(t, m.ExcludedDir("docs/old"))
	assert.False(t, m.ExcludedDir("docs"))
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	_, err := NewMatcher(nil, []string{"/"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
