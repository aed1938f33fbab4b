// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application outside text entry.
	Quit key.Binding

	// ForceQuit exits from any state.
	ForceQuit key.Binding

	// Help toggles the full help.
	Help key.Binding

	// Back leaves the current state.
	Back key.Binding

	// Search focuses the query input.
	Search key.Binding

	// Up and Down move the selection while browsing.
	Up   key.Binding
	Down key.Binding

	// PrevResult and NextResult move the selection while typing.
	PrevResult key.Binding
	NextResult key.Binding

	// Preview opens the selected document.
	Preview key.Binding

	// CopyPath copies the selected document's path.
	CopyPath key.Binding

	// CopyContent copies the selected document's markdown.
	CopyContent key.Binding

	// CopyCode copies the n-th fenced code block of the previewed document.
	CopyCode key.Binding

	// Open opens the selected document in the default application.
	Open key.Binding

	// Scroll keys for the preview.
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevResult: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		NextResult: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Preview: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "preview"),
		),
		CopyPath: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		CopyContent: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "copy content"),
		),
		CopyCode: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "copy code block"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d", " ", "f"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// BrowsingHelp returns the hints shown while browsing results.
func (k *KeyMap) BrowsingHelp() []key.Binding {
	return []key.Binding{k.Search, k.Up, k.Down, k.Preview, k.CopyPath, k.Open, k.Help, k.Quit}
}

// SearchingHelp returns the hints shown while typing a query.
func (k *KeyMap) SearchingHelp() []key.Binding {
	return []key.Binding{k.PrevResult, k.NextResult, k.Preview, k.Back}
}

// PreviewingHelp returns the hints shown in the full preview.
func (k *KeyMap) PreviewingHelp() []key.Binding {
	return []key.Binding{k.ScrollUp, k.ScrollDown, k.PageDown, k.CopyCode, k.CopyPath, k.CopyContent, k.Open, k.Back}
}

// FullHelp returns every binding grouped by purpose.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Up, k.Down, k.Preview, k.Back},
		{k.CopyPath, k.CopyContent, k.CopyCode, k.Open},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Help, k.Quit, k.ForceQuit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// CodeBlockIndex returns the zero-based code block selected by a
// CopyCode key, or -1 for any other key.
func CodeBlockIndex(keyStr string) int {
	if len(keyStr) != 1 || keyStr[0] < '1' || keyStr[0] > '9' {
		return -1
	}
	return int(keyStr[0] - '1')
}
