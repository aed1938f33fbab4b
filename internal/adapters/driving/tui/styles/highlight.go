package styles

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// Highlight renders text with base, drawing the byte ranges in spans
// with the Match style. Spans outside text are ignored.
func (s *Styles) Highlight(text string, spans []domain.Span, base lipgloss.Style) string {
	if len(spans) == 0 {
		return base.Render(text)
	}
	sorted := make([]domain.Span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	match := s.Match.Inherit(base)
	var b strings.Builder
	pos := 0
	for _, sp := range sorted {
		start, end := sp.Start, sp.End
		if start < pos {
			start = pos
		}
		if end > len(text) {
			end = len(text)
		}
		if start >= end {
			continue
		}
		if start > pos {
			b.WriteString(base.Render(text[pos:start]))
		}
		b.WriteString(match.Render(text[start:end]))
		pos = end
	}
	if pos < len(text) {
		b.WriteString(base.Render(text[pos:]))
	}
	return b.String()
}
