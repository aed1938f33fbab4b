// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
)

// Level classifies the status message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// Bar displays counts, the latest message and keybinding hints.
type Bar struct {
	styles *styles.Styles
	help   help.Model

	results   int
	documents int
	skipped   int
	message   string
	level     Level
	bindings  []key.Binding
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	h := help.New()
	h.Styles.ShortKey = s.Help.Bold(true)
	h.Styles.ShortDesc = s.Help
	h.Styles.ShortSeparator = s.Help
	h.Styles.FullKey = s.Title
	h.Styles.FullDesc = s.Normal
	h.Styles.FullSeparator = s.Muted

	return &Bar{
		styles: s,
		help:   h,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()

	s.help.Width = s.width - lipgloss.Width(left) - 3
	right := s.help.ShortHelpView(s.bindings)

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).MaxHeight(1).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders counts and the current message.
func (s *Bar) renderLeft() string {
	parts := []string{fmt.Sprintf("%d/%d", s.results, s.documents)}
	if s.skipped > 0 {
		parts = append(parts, s.styles.Warning.Render(fmt.Sprintf("%d skipped", s.skipped)))
	}
	if s.message != "" {
		var msg string
		switch s.level {
		case LevelError:
			msg = s.styles.Error.Render(s.message)
		case LevelWarning:
			msg = s.styles.Warning.Render(s.message)
		default:
			msg = s.styles.Normal.Render(s.message)
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

// FullHelp renders every binding in columns.
func (s *Bar) FullHelp(groups [][]key.Binding) string {
	s.help.Width = s.width
	return s.help.FullHelpView(groups)
}

// SetCounts sets the number of results and indexed documents.
func (s *Bar) SetCounts(results, documents int) {
	s.results = results
	s.documents = documents
}

// SetSkipped sets the number of files that could not be indexed.
func (s *Bar) SetSkipped(n int) {
	s.skipped = n
}

// Skipped returns the number of skipped files.
func (s *Bar) Skipped() int {
	return s.skipped
}

// SetMessage sets the message and its level.
func (s *Bar) SetMessage(level Level, message string) {
	s.level = level
	s.message = message
}

// Message returns the current message and its level.
func (s *Bar) Message() (Level, string) {
	return s.level, s.message
}

// ClearMessage removes the message.
func (s *Bar) ClearMessage() {
	s.message = ""
	s.level = LevelInfo
}

// SetBindings sets the key hints shown on the right.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
