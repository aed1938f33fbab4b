package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads markdown files from disk.
type Loader struct {
	root        string
	maxFileSize int64
}

// NewLoader creates a loader. Relative paths in results are computed
// against root. A maxFileSize of zero means unlimited.
func NewLoader(root string, maxFileSize int64) *Loader {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Loader{root: root, maxFileSize: maxFileSize}
}

// Load reads path. A missing file yields an error wrapping
// fs.ErrNotExist, including when it vanishes between stat and read.
// Directories, FIFOs and devices are refused with ErrNotRegular.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	// Reading a FIFO or device would block.
	if !info.Mode().IsRegular() {
		return nil, &domain.FileReadError{Path: path, Err: domain.ErrNotRegular}
	}
	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		return nil, &domain.FileReadError{Path: path, Err: domain.ErrFileTooLarge}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		rel = path
	}
	return &domain.RawDocument{
		FileInfo: domain.FileInfo{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Title:   domain.TitleFromName(path),
			Size:    int64(len(content)),
			ModTime: info.ModTime(),
		},
		Content: content,
	}, nil
}

// Exists reports whether anything is present at path.
func (l *Loader) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
