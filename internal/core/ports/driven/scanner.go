package driven

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// FileScanner discovers markdown files below a root directory.
type FileScanner interface {
	// Root returns the absolute scan root.
	Root() string

	// Validate checks that the root exists and is a readable directory.
	// Returns a *domain.ScanError otherwise.
	Validate(ctx context.Context) error

	// Scan walks the root and streams candidate files.
	// Each call starts a fresh walk. Both channels are closed when the
	// walk ends. A *domain.ScanError on the error channel is fatal;
	// a *domain.FileReadError means one entry was skipped.
	Scan(ctx context.Context) (<-chan domain.FileInfo, <-chan error)

	// Accepts reports whether Scan would produce path. Besides name and
	// patterns, an existing entry must be a regular file, or a symlink to
	// one when symlinks are followed. A missing path is judged by name.
	Accepts(path string) bool
}

// DocumentLoader reads a single file.
type DocumentLoader interface {
	// Load reads path with its metadata. A missing file yields an error
	// wrapping fs.ErrNotExist; anything but a regular file is refused
	// without being opened.
	Load(ctx context.Context, path string) (*domain.RawDocument, error)

	// Exists reports whether anything is present at path.
	Exists(path string) bool
}

// ChangeWatcher streams file system changes below the scan root.
type ChangeWatcher interface {
	// Watch starts watching. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close releases resources.
	Close() error
}
