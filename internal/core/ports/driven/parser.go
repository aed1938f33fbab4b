package driven

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// Parser turns raw markdown into an indexable document.
type Parser interface {
	// Parse extracts title, headings, body text and token sets.
	Parse(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)
}
