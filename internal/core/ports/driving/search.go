package driving

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs a query against the current index. An empty query
	// lists every document, most recently modified first.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
