// Package preview renders the raw markdown of the selected document.
package preview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/components/list"
	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui/styles"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
)

// headerHeight is the number of rows above the viewport.
const headerHeight = 3

// Pane shows a document header and its content in a scrollable
// viewport. In side mode only the first lines are shown; in full mode
// the whole document scrolls.
type Pane struct {
	styles   *styles.Styles
	viewport viewport.Model

	doc    *domain.Document
	terms  []string
	notice string

	maxLines int
	full     bool
	width    int
	height   int
	now      func() time.Time
}

// NewPane creates a preview pane showing maxLines lines in side mode.
func NewPane(s *styles.Styles, maxLines int) *Pane {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if maxLines <= 0 {
		maxLines = domain.DefaultPreviewLines
	}
	return &Pane{
		styles:   s,
		viewport: viewport.New(40, 10),
		maxLines: maxLines,
		width:    40,
		height:   10 + headerHeight,
		now:      time.Now,
	}
}

// SetDocument shows doc with the words of query highlighted. Showing
// the same path again keeps the scroll position.
func (p *Pane) SetDocument(doc *domain.Document, query string) {
	samePath := p.doc != nil && doc != nil && p.doc.Path == doc.Path
	p.doc = doc
	p.terms = QueryTerms(query)
	p.notice = ""
	p.render()
	if !samePath {
		p.viewport.GotoTop()
	}
}

// SetNotice shows msg above the content, for example when the
// document was removed from disk.
func (p *Pane) SetNotice(msg string) {
	p.notice = msg
}

// Clear removes the document.
func (p *Pane) Clear() {
	p.doc = nil
	p.notice = ""
	p.viewport.SetContent("")
}

// Document returns the document on display.
func (p *Pane) Document() *domain.Document {
	return p.doc
}

// Notice returns the current notice.
func (p *Pane) Notice() string {
	return p.notice
}

// SetFull switches between side and full mode.
func (p *Pane) SetFull(full bool) {
	if p.full == full {
		return
	}
	p.full = full
	p.render()
	p.viewport.GotoTop()
}

// Full reports whether the pane is in full mode.
func (p *Pane) Full() bool {
	return p.full
}

// SetDimensions sets the outer size of the pane.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
	p.viewport.Width = width
	vh := height - headerHeight
	if vh < 1 {
		vh = 1
	}
	p.viewport.Height = vh
	p.render()
}

// Width returns the outer width.
func (p *Pane) Width() int {
	return p.width
}

// Height returns the outer height.
func (p *Pane) Height() int {
	return p.height
}

// Update scrolls the viewport.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// GotoTop scrolls to the first line.
func (p *Pane) GotoTop() {
	p.viewport.GotoTop()
}

// GotoBottom scrolls to the last line.
func (p *Pane) GotoBottom() {
	p.viewport.GotoBottom()
}

// ScrollPercent returns the scroll position between 0 and 1.
func (p *Pane) ScrollPercent() float64 {
	return p.viewport.ScrollPercent()
}

// YOffset returns the first visible content line.
func (p *Pane) YOffset() int {
	return p.viewport.YOffset
}

// View renders the header and the visible content.
func (p *Pane) View() string {
	if p.doc == nil {
		msg := "Nothing selected"
		if p.notice != "" {
			msg = p.notice
		}
		return p.styles.Muted.Render(msg)
	}

	title := p.styles.Title.Render(p.doc.Title)
	meta := p.styles.Muted.Render(p.doc.RelPath + "  " + list.Describe(p.doc.Size, p.doc.ModTime, p.now()))
	third := ""
	if p.notice != "" {
		third = p.styles.Warning.Render(p.notice)
	}
	return strings.Join([]string{title, meta, third, p.viewport.View()}, "\n")
}

// render fills the viewport from the current document.
func (p *Pane) render() {
	if p.doc == nil {
		p.viewport.SetContent("")
		return
	}
	lines := strings.Split(strings.ReplaceAll(p.doc.Content, "\r\n", "\n"), "\n")
	if !p.full && len(lines) > p.maxLines {
		lines = lines[:p.maxLines]
	}
	if p.doc.IsEmpty() {
		p.viewport.SetContent(p.styles.Muted.Render("(empty file)"))
		return
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = p.styles.Highlight(line, matchSpans(line, p.terms), p.styles.Normal)
	}
	p.viewport.SetContent(strings.Join(out, "\n"))
}

// matchSpans locates tokens of line that start with one of terms.
func matchSpans(line string, terms []string) []domain.Span {
	if len(terms) == 0 {
		return nil
	}
	var spans []domain.Span
	for _, tok := range index.Tokenize(line) {
		for _, term := range terms {
			if strings.HasPrefix(tok.Term, term) {
				spans = append(spans, domain.Span{Field: domain.FieldBody, Start: tok.Start, End: tok.End})
				break
			}
		}
	}
	return spans
}

// QueryTerms returns the lowercase words of the positive parts of a
// query, for highlighting. Field prefixes, quotes and excluded terms
// are dropped; syntax errors are tolerated.
func QueryTerms(query string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, f := range strings.Fields(query) {
		if strings.HasPrefix(f, "-") {
			continue
		}
		if i := strings.IndexByte(f, ':'); i > 0 {
			if _, ok := domain.ParseField(f[:i]); ok {
				f = f[i+1:]
			}
		}
		for _, w := range index.Words(f) {
			if !seen[w] {
				seen[w] = true
				terms = append(terms, w)
			}
		}
	}
	return terms
}
