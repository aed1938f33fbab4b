package driving

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// DocumentService gives read access to indexed documents.
type DocumentService interface {
	// Get returns the indexed document at path.
	Get(ctx context.Context, path string) (*domain.Document, error)

	// List returns every document, most recently modified first.
	List(ctx context.Context) ([]*domain.Document, error)
}
