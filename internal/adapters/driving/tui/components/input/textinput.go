// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
)

// Placeholder hints at the query syntax.
const Placeholder = `type to search  "phrase"  -exclude  title: heading: path: body:`

// SearchInput wraps a bubbles textinput with search-specific styling.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewSearchInput creates a new search input component. It starts
// blurred; the app focuses it when searching begins.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = Placeholder
	ti.CharLimit = 256
	ti.Width = 50
	ti.PromptStyle = s.Title
	ti.PlaceholderStyle = s.Muted

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the search input.
func (s *SearchInput) View() string {
	return s.styles.InputField.Width(s.width - 2).Render(s.textinput.View())
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the outer width of the input box.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Account for border, padding and prompt
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Height is the number of rows View occupies.
func (s *SearchInput) Height() int {
	return 3
}

// Reset clears the input.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
}
