package markdown

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Parser = (*Normaliser)(nil)

// Normaliser parses markdown documents with goldmark.
type Normaliser struct {
	parser parser.Parser
}

// New creates a markdown normaliser. GitHub flavoured extensions are
// enabled so tables and task lists contribute their text.
func New() *Normaliser {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return &Normaliser{parser: md.Parser()}
}

// frontMatter holds the keys mdf reads from a YAML header.
type frontMatter struct {
	Title string `yaml:"title"`
	Tags  any    `yaml:"tags"`
}

// Parse extracts the title, headings and plain body text of raw and
// fills the per-field token sets. The title is the front matter title,
// else the first level-1 heading, else a title derived from the file name.
func (n *Normaliser) Parse(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := raw.Content
	if !utf8.Valid(content) {
		content = bytes.ToValidUTF8(content, []byte("�"))
	}

	header, src := splitFrontMatter(content)
	var meta frontMatter
	if header != nil {
		if err := yaml.Unmarshal(header, &meta); err != nil {
			logger.Debug("Ignoring front matter in %s: %v", raw.RelPath, err)
			meta = frontMatter{}
		}
	}

	root := n.parser.Parse(text.NewReader(src))
	w := &walker{src: src}
	_ = ast.Walk(root, w.visit)

	doc := &domain.Document{
		Path:       raw.Path,
		RelPath:    raw.RelPath,
		Headings:   w.headings,
		Tags:       tagList(meta.Tags),
		CodeBlocks: w.code,
		Content:    string(raw.Content),
		Body:       w.body(),
		Size:       raw.Size,
		ModTime:    raw.ModTime,
	}

	doc.Title = strings.TrimSpace(meta.Title)
	if doc.Title == "" {
		for _, h := range w.headings {
			if h.Level == 1 && h.Text != "" {
				doc.Title = h.Text
				break
			}
		}
	}
	if doc.Title == "" {
		doc.Title = raw.Title
	}
	if doc.Title == "" {
		doc.Title = domain.TitleFromName(raw.Path)
	}

	headingText := make([]string, 0, len(doc.Headings)+len(doc.Tags))
	for _, h := range doc.Headings {
		headingText = append(headingText, h.Text)
	}
	headingText = append(headingText, doc.Tags...)

	doc.TitleTerms = index.Terms(doc.Title)
	doc.HeadingTerms = index.Terms(strings.Join(headingText, "\n"))
	doc.PathTerms = index.Terms(doc.RelPath)
	doc.BodyTerms = index.Terms(doc.Body)
	return doc, nil
}

// walker collects headings, fenced code and body text from the AST.
type walker struct {
	src      []byte
	headings []domain.Heading
	code     []domain.CodeBlock
	buf      strings.Builder
}

func (w *walker) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		if node.Type() == ast.TypeBlock {
			w.newline()
		}
		return ast.WalkContinue, nil
	}

	switch n := node.(type) {
	case *ast.Heading:
		w.headings = append(w.headings, domain.Heading{
			Level: n.Level,
			Text:  strings.TrimSpace(inlineText(n, w.src)),
		})
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock, *ast.FencedCodeBlock:
		var code strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(w.src))
		}
		w.buf.WriteString(code.String())
		w.newline()
		if fenced, ok := n.(*ast.FencedCodeBlock); ok {
			w.code = append(w.code, domain.CodeBlock{
				Language: string(fenced.Language(w.src)),
				Content:  strings.TrimSuffix(code.String(), "\n"),
			})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Text:
		w.buf.Write(n.Segment.Value(w.src))
		if n.SoftLineBreak() || n.HardLineBreak() {
			w.buf.WriteByte('\n')
		}

	case *ast.String:
		w.buf.Write(n.Value)

	case *ast.AutoLink:
		w.buf.Write(n.Label(w.src))
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (w *walker) newline() {
	s := w.buf.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		w.buf.WriteByte('\n')
	}
}

// body returns the collected text, one trimmed non-empty line per line.
func (w *walker) body() string {
	lines := strings.Split(w.buf.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// inlineText concatenates the text below node.
func inlineText(node ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// splitFrontMatter separates a leading "---" YAML block from the
// markdown that follows. Without a closing "---" or "..." line the
// content has no front matter.
func splitFrontMatter(content []byte) (header, rest []byte) {
	first, after, ok := cutLine(content)
	if !ok || strings.TrimRight(string(first), " \t") != "---" {
		return nil, content
	}
	start := len(content) - len(after)
	for pos := start; pos < len(content); {
		line, next, more := cutLine(content[pos:])
		trimmed := strings.TrimRight(string(line), " \t")
		if trimmed == "---" || trimmed == "..." {
			return content[start:pos], next
		}
		if !more {
			break
		}
		pos = len(content) - len(next)
	}
	return nil, content
}

// cutLine splits b after its first line, dropping the line ending.
// ok is false when b has no line ending.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}

// tagList accepts tags as a YAML list or a comma separated string.
func tagList(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	}
	var tags []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}
