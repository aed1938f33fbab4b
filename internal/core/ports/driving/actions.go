package driving

import (
	"context"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
)

// ResultActionService provides actions on search results for external actors.
// This is used by the TUI and CLI adapters.
type ResultActionService interface {
	// CopyPath copies the result's path to the system clipboard.
	CopyPath(ctx context.Context, result *domain.SearchResult) error

	// CopyContent copies the result's raw markdown to the system clipboard.
	CopyContent(ctx context.Context, result *domain.SearchResult) error

	// CopyCodeBlock copies the n-th fenced code block of the result,
	// counting from zero, to the system clipboard.
	CopyCodeBlock(ctx context.Context, result *domain.SearchResult, n int) error

	// OpenDocument opens the result's file in the default application.
	OpenDocument(ctx context.Context, result *domain.SearchResult) error
}
