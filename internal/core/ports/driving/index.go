package driving

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// IndexService builds and maintains the in-memory index.
type IndexService interface {
	// BuildFull indexes exactly the given files and publishes the result
	// in one step. Queries keep using the previous index until then.
	BuildFull(ctx context.Context, paths []string) (domain.BuildReport, error)

	// Rebuild scans the root and runs BuildFull on what it finds.
	Rebuild(ctx context.Context) (domain.BuildReport, error)

	// UpdateOne re-reads a single file. A file that no longer exists is
	// removed from the index.
	UpdateOne(ctx context.Context, path string) error

	// Watch applies file system changes as they happen and reports each
	// one. The channel closes when ctx is done.
	Watch(ctx context.Context) (<-chan domain.IndexEvent, error)

	// Stats describes the current index.
	Stats() domain.IndexStats
}
