package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermMatcher_Quality(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		token string
		want  float64
	}{
		{"exact", "hello", "hello", QualityExact},
		{"case folded", "Hello", "hello", QualityExact},
		{"stem", "running", "runs", QualityStem},
		{"prefix", "conf", "configuration", QualityPrefix},
		{"substring", "figur", "configuration", QualitySubstring},
		{"short term no substring", "fi", "config", 0},
		{"one typo", "helo", "hello", QualityTypo},
		{"two typos long term", "configuraton", "configurations", QualityTypo / 2},
		{"too many typos", "world", "wrd", 0},
		{"short term no typo", "cat", "cut", 0},
		{"unrelated", "zzz", "hello", 0},
		{"empty token", "a", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTermMatcher(tt.term)
			assert.InDelta(t, tt.want, m.Quality(tt.token), 1e-9)
		})
	}
}

func TestMaxEdits(t *testing.T) {
	assert.Equal(t, 0, MaxEdits(3))
	assert.Equal(t, 1, MaxEdits(4))
	assert.Equal(t, 1, MaxEdits(7))
	assert.Equal(t, 2, MaxEdits(8))
}

func TestTermMatcher_NeedsScan(t *testing.T) {
	assert.False(t, NewTermMatcher("go").NeedsScan())
	assert.True(t, NewTermMatcher("api").NeedsScan())
}

func TestTermMatcher_Best(t *testing.T) {
	m := NewTermMatcher("test")
	q, tok := m.Best(map[string]struct{}{"testing": {}, "tests": {}, "contest": {}})
	assert.Equal(t, QualityStem, q)
	assert.Equal(t, "testing", tok)

	q, tok = m.Best(map[string]struct{}{"test": {}, "tests": {}})
	assert.Equal(t, QualityExact, q)
	assert.Equal(t, "test", tok)

	q, tok = m.Best(map[string]struct{}{"other": {}})
	assert.Zero(t, q)
	assert.Empty(t, tok)
}
