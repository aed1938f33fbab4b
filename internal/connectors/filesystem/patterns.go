package filesystem

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// pattern is a compiled gitignore-like glob.
//
//	**   any number of path segments
//	*    anything within one segment
//	?    one character
//
// A pattern without a slash is matched against every path segment;
// one with a slash, including a leading one, is matched against the
// whole slash-separated path relative to the root. A trailing slash restricts the pattern to
// directories.
type pattern struct {
	raw      string
	re       *regexp.Regexp
	baseOnly bool
	dirOnly  bool
}

func compilePattern(raw string) (pattern, error) {
	p := pattern{raw: raw}
	glob := strings.TrimSpace(raw)
	if strings.HasSuffix(glob, "/") {
		p.dirOnly = true
		glob = strings.TrimRight(glob, "/")
	}
	anchored := strings.HasPrefix(glob, "/")
	glob = strings.TrimPrefix(glob, "/")
	if glob == "" {
		return p, fmt.Errorf("%w: empty pattern %q", domain.ErrInvalidInput, raw)
	}
	p.baseOnly = !anchored && !strings.Contains(glob, "/")

	re, err := globToRegex(glob)
	if err != nil {
		return p, fmt.Errorf("%w: pattern %q: %v", domain.ErrInvalidInput, raw, err)
	}
	p.re = re
	return p, nil
}

func globToRegex(glob string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(glob); i++ {
		ch := glob[i]
		switch ch {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				// "**/" also matches zero directories.
				if i+2 < len(glob) && glob[i+2] == '/' {
					sb.WriteString("(?:.*/)?")
					i += 2
				} else {
					sb.WriteString(".*")
					i++
				}
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		case '.', '+', '(', ')', '[', ']', '{', '}', '|', '^', '$', '\\':
			sb.WriteString("\\")
			sb.WriteByte(ch)
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// match reports whether the pattern matches rel, the slash-separated
// path of an entry. isDir tells whether the entry itself is a directory.
func (p pattern) match(rel string, isDir bool) bool {
	if !p.baseOnly {
		if p.dirOnly && !isDir {
			return false
		}
		return p.re.MatchString(rel)
	}

	segments := strings.Split(rel, "/")
	for i, seg := range segments {
		last := i == len(segments)-1
		if p.dirOnly && last && !isDir {
			continue
		}
		if p.re.MatchString(seg) {
			return true
		}
	}
	return false
}

// Matcher applies include and exclude patterns. Exclude wins.
type Matcher struct {
	include []pattern
	exclude []pattern
}

// NewMatcher compiles the patterns. An empty include list includes
// every markdown file.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	for _, raw := range include {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := compilePattern(raw)
		if err != nil {
			return nil, err
		}
		m.include = append(m.include, p)
	}
	for _, raw := range exclude {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := compilePattern(raw)
		if err != nil {
			return nil, err
		}
		m.exclude = append(m.exclude, p)
	}
	return m, nil
}

// ExcludedDir reports whether the directory rel should be pruned.
func (m *Matcher) ExcludedDir(rel string) bool {
	for _, p := range m.exclude {
		if p.match(rel, true) {
			return true
		}
	}
	return false
}

// MatchFile reports whether the file rel passes the patterns.
func (m *Matcher) MatchFile(rel string) bool {
	for _, p := range m.exclude {
		if p.match(rel, false) {
			return false
		}
	}
	// Files below an excluded directory are excluded too.
	for d := path.Dir(rel); d != "." && d != "/"; d = path.Dir(d) {
		if m.ExcludedDir(d) {
			return false
		}
	}
	if len(m.include) == 0 {
		return true
	}
	for _, p := range m.include {
		if p.match(rel, false) {
			return true
		}
	}
	return false
}
