package filesystem

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// Ensure Scanner implements the interface.
var _ driven.FileScanner = (*Scanner)(nil)

// Options configures a Scanner.
type Options struct {
	Include        []string
	Exclude        []string
	ShowHidden     bool
	FollowSymlinks bool
	MaxFileSize    int64
}

// OptionsFromSettings maps user settings to scanner options.
func OptionsFromSettings(s domain.Settings) Options {
	return Options{
		Include:        s.Include,
		Exclude:        s.Exclude,
		ShowHidden:     s.ShowHidden,
		FollowSymlinks: s.FollowSymlinks,
		MaxFileSize:    s.MaxFileSize,
	}
}

// Scanner discovers markdown files below a root directory.
type Scanner struct {
	root    string
	opts    Options
	matcher *Matcher
}

// NewScanner creates a scanner for root. The root is made absolute
// but not checked; see Validate.
func NewScanner(root string, opts Options) (*Scanner, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.ScanError{Root: root, Err: err}
	}
	m, err := NewMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	return &Scanner{root: abs, opts: opts, matcher: m}, nil
}

// Root returns the absolute scan root.
func (s *Scanner) Root() string {
	return s.root
}

// Validate checks that the root is a readable directory.
func (s *Scanner) Validate(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return &domain.ScanError{Root: s.root, Err: err}
	}
	if !info.IsDir() {
		return &domain.ScanError{Root: s.root, Err: domain.ErrNotDirectory}
	}
	f, err := os.Open(s.root)
	if err != nil {
		return &domain.ScanError{Root: s.root, Err: err}
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return &domain.ScanError{Root: s.root, Err: err}
	}
	return nil
}

// Scan walks the root in lexical order and streams markdown files.
// Each call starts a new walk; both channels close when it ends.
func (s *Scanner) Scan(ctx context.Context) (<-chan domain.FileInfo, <-chan error) {
	files := make(chan domain.FileInfo, 64)
	errs := make(chan error, 16)

	go func() {
		defer close(files)
		defer close(errs)

		if err := s.Validate(ctx); err != nil {
			sendErr(ctx, errs, err)
			return
		}

		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == s.root {
					return &domain.ScanError{Root: s.root, Err: err}
				}
				// The entry or directory listing is unreadable; skip it.
				logger.Warn("Cannot read %s: %v", path, err)
				sendErr(ctx, errs, &domain.FileReadError{Path: path, Err: err})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path == s.root {
				return nil
			}

			rel := s.rel(path)
			if !s.opts.ShowHidden && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if s.matcher.ExcludedDir(rel) {
					logger.Debug("Pruned %s", rel)
					return filepath.SkipDir
				}
				return nil
			}

			info, ok := s.fileInfo(path, d)
			if !ok || !IsMarkdown(path) || !s.matcher.MatchFile(rel) {
				return nil
			}
			if s.opts.MaxFileSize > 0 && info.Size() > s.opts.MaxFileSize {
				sendErr(ctx, errs, &domain.FileReadError{Path: path, Err: domain.ErrFileTooLarge})
				return nil
			}

			fi := domain.FileInfo{
				Path:    path,
				RelPath: rel,
				Title:   domain.TitleFromName(path),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
			select {
			case files <- fi:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		var se *domain.ScanError
		switch {
		case err == nil:
		case errors.As(err, &se):
			sendErr(ctx, errs, se)
		case ctx.Err() != nil:
		default:
			sendErr(ctx, errs, &domain.ScanError{Root: s.root, Err: err})
		}
	}()

	return files, errs
}

// fileInfo returns metadata for a regular file, following symlinks
// when enabled. Directory symlinks are never followed.
func (s *Scanner) fileInfo(path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		if !s.opts.FollowSymlinks {
			return nil, false
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
		return info, true
	}
	if !d.Type().IsRegular() {
		return nil, false
	}
	info, err := d.Info()
	if err != nil {
		return nil, false
	}
	return info, true
}

// Accepts reports whether Scan would emit path. The name and patterns
// are checked first, then the entry on disk, if there is one.
func (s *Scanner) Accepts(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if !IsMarkdown(rel) {
		return false
	}
	if !s.opts.ShowHidden && isHidden(rel) {
		return false
	}
	if !s.matcher.MatchFile(rel) {
		return false
	}
	return s.acceptsEntry(path)
}

// acceptsEntry applies the file type rules of Scan to the entry at
// path. A missing path passes so that its removal reaches the index.
func (s *Scanner) acceptsEntry(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return true
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		if !s.opts.FollowSymlinks {
			return false
		}
		if info, err = os.Stat(path); err != nil {
			return false
		}
	}
	return info.Mode().IsRegular()
}

func (s *Scanner) rel(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func sendErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range domain.MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// isHidden reports whether any segment of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if len(seg) > 1 && seg[0] == '.' && seg != ".." {
			return true
		}
	}
	return false
}
