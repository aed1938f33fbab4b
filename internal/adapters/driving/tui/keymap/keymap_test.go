package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q"}},
		{"force quit", km.ForceQuit, []string{"ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"search", km.Search, []string{"/"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"preview", km.Preview, []string{"enter"}},
		{"copy path", km.CopyPath, []string{"y"}},
		{"copy content", km.CopyContent, []string{"Y"}},
		{"open", km.Open, []string{"o"}},
		{"copy code", km.CopyCode, []string{"1", "9"}},
		{"top", km.Top, []string{"g"}},
		{"bottom", km.Bottom, []string{"G"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
		})
	}
}

func TestTypingKeysAreNotNavigation(t *testing.T) {
	km := DefaultKeyMap()

	// j and k must reach the query input while searching.
	assert.False(t, Matches("j", km.NextResult))
	assert.False(t, Matches("k", km.PrevResult))
}

func TestStateHelp(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.BrowsingHelp(), km.Search)
	assert.Contains(t, km.SearchingHelp(), km.Back)
	assert.Contains(t, km.PreviewingHelp(), km.CopyContent)

	var total int
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Greater(t, total, len(km.BrowsingHelp()))
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("up", km.Up))
	assert.False(t, Matches("x", km.Up))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}}, km.CopyContent))
}

func TestCodeBlockIndex(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"1", 0},
		{"5", 4},
		{"9", 8},
		{"0", -1},
		{"y", -1},
		{"10", -1},
		{"", -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeBlockIndex(tt.key), tt.key)
	}
}
