package status

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/keymap"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles())

	require.NotNil(t, bar)
	assert.Equal(t, 80, bar.Width())
	level, msg := bar.Message()
	assert.Equal(t, LevelInfo, level)
	assert.Empty(t, msg)
}

func TestBar_Counts(t *testing.T) {
	bar := NewBar(nil)
	bar.SetWidth(120)
	bar.SetCounts(3, 42)

	assert.Contains(t, bar.View(), "3/42")
	assert.NotContains(t, bar.View(), "skipped")

	bar.SetSkipped(2)
	assert.Equal(t, 2, bar.Skipped())
	assert.Contains(t, bar.View(), "2 skipped")
}

func TestBar_Message(t *testing.T) {
	bar := NewBar(nil)
	bar.SetWidth(120)

	bar.SetMessage(LevelError, "read a.md: permission denied")
	level, msg := bar.Message()
	assert.Equal(t, LevelError, level)
	assert.Equal(t, "read a.md: permission denied", msg)
	assert.Contains(t, bar.View(), "permission denied")

	bar.ClearMessage()
	_, msg = bar.Message()
	assert.Empty(t, msg)
}

func TestBar_Bindings(t *testing.T) {
	bar := NewBar(nil)
	bar.SetWidth(120)
	km := keymap.DefaultKeyMap()

	bar.SetBindings([]key.Binding{km.Search, km.Quit})
	view := bar.View()
	assert.Contains(t, view, "search")
	assert.Contains(t, view, "quit")
}

func TestBar_FullHelp(t *testing.T) {
	bar := NewBar(nil)
	bar.SetWidth(120)

	out := bar.FullHelp(keymap.DefaultKeyMap().FullHelp())
	assert.Contains(t, out, "copy path")
	assert.Contains(t, out, "page down")
}
