// Package list provides list display components for the TUI.
package list

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aquilax/truncate"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// itemHeight is the number of rows one result occupies.
const itemHeight = 3

const omission = "..."

// ResultList displays search results in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	selected int
	offset   int
	styles   *styles.Styles
	width    int
	height   int
	now      func() time.Time
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
		now:    time.Now,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "pgup":
			r.move(-r.visibleCount())
		case "pgdown":
			r.move(r.visibleCount())
		}
	}
	return r, nil
}

// View renders the visible part of the list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	visible := r.visibleCount()
	end := r.offset + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	lines := make([]string, 0, visible*itemHeight)
	for i := r.offset; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i])...)
	}
	return strings.Join(lines, "\n")
}

// renderResult formats one result as title, path and snippet rows.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) []string {
	indicator := "  "
	base := r.styles.Normal
	if index == r.selected {
		indicator = r.styles.Selected.Render("> ")
		base = r.styles.Selected
	}

	age := Age(result.ModTime, r.now())
	titleWidth := r.width - 2 - utf8.RuneCountInString(age) - 1
	if titleWidth < 10 {
		titleWidth = 10
	}

	title, titleSpans := clip(result.Title, result.SpansFor(domain.FieldTitle), titleWidth, truncate.PositionEnd)
	titleLine := indicator + r.styles.Highlight(title, titleSpans, base)
	pad := r.width - lipgloss.Width(titleLine) - utf8.RuneCountInString(age)
	if pad < 1 {
		pad = 1
	}
	titleLine += strings.Repeat(" ", pad) + r.styles.Muted.Render(age)

	relPath, pathSpans := clip(result.RelPath, result.SpansFor(domain.FieldPath), r.width-4, truncate.PositionStart)
	pathLine := "    " + r.styles.Highlight(relPath, pathSpans, r.styles.Muted)

	snippetLine := ""
	if result.Snippet != "" {
		snippet, spans := clip(result.Snippet, result.SnippetSpans, r.width-4, truncate.PositionEnd)
		snippetLine = "    " + r.styles.Highlight(snippet, spans, r.styles.Subtitle)
	}

	return []string{titleLine, pathLine, snippetLine}
}

// clip shortens text to width runes and moves spans to match.
func clip(text string, spans []domain.Span, width int, pos truncate.TruncatePosition) (string, []domain.Span) {
	if width < len(omission)+1 || utf8.RuneCountInString(text) <= width {
		return text, spans
	}
	out := truncate.Truncate(text, width, omission, pos)

	// shift maps a byte offset in text to one in out; kept bytes are
	// the range [lo, hi) of text.
	var lo, hi, shift int
	switch pos {
	case truncate.PositionStart:
		kept := strings.TrimPrefix(out, omission)
		lo, hi = len(text)-len(kept), len(text)
		shift = len(omission) - lo
	default:
		kept := strings.TrimSuffix(out, omission)
		lo, hi = 0, len(kept)
	}

	var moved []domain.Span
	for _, sp := range spans {
		start, end := sp.Start, sp.End
		if start < lo {
			start = lo
		}
		if end > hi {
			end = hi
		}
		if start >= end {
			continue
		}
		sp.Start, sp.End = start+shift, end+shift
		moved = append(moved, sp)
	}
	return out, moved
}

// SetResults replaces the results and selects the first one.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
	r.offset = 0
}

// SelectPath selects the result for path and reports whether it is
// present.
func (r *ResultList) SelectPath(path string) bool {
	for i := range r.results {
		if r.results[i].Path == path {
			r.SetSelected(i)
			return true
		}
	}
	return false
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
		r.scrollToSelected()
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	r.move(-1)
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	r.move(1)
}

func (r *ResultList) move(delta int) {
	if len(r.results) == 0 {
		return
	}
	i := r.selected + delta
	if i < 0 {
		i = 0
	}
	if i >= len(r.results) {
		i = len(r.results) - 1
	}
	r.SetSelected(i)
}

func (r *ResultList) visibleCount() int {
	n := r.height / itemHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (r *ResultList) scrollToSelected() {
	visible := r.visibleCount()
	if r.selected < r.offset {
		r.offset = r.selected
	}
	if r.selected >= r.offset+visible {
		r.offset = r.selected - visible + 1
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.scrollToSelected()
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}

// Time units beyond what the time package defines.
const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 12 * month
)

var magnitudes = []humanize.RelTimeMagnitude{
	{D: 5 * time.Second, Format: "just now", DivBy: time.Second},
	{D: time.Minute, Format: "%ds %s", DivBy: time.Second},
	{D: time.Hour, Format: "%dm %s", DivBy: time.Minute},
	{D: day, Format: "%dh %s", DivBy: time.Hour},
	{D: week, Format: "%dd %s", DivBy: day},
	{D: month, Format: "%dw %s", DivBy: week},
	{D: year, Format: "%dmo %s", DivBy: month},
	{D: 100 * year, Format: "%dy %s", DivBy: year},
}

// Age formats t relative to now in a compact form such as "3d ago".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", magnitudes)
}

// Describe returns "size · age" for a document, as shown in the
// preview header and the CLI.
func Describe(size int64, modTime, now time.Time) string {
	parts := []string{humanize.IBytes(uint64(size))}
	if age := Age(modTime, now); age != "" {
		parts = append(parts, age)
	}
	return strings.Join(parts, " · ")
}
