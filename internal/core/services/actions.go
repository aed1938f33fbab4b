package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driven"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ErrUnavailable is returned when an action has no backing adapter.
var ErrUnavailable = errors.New("action unavailable")

// ResultActionService provides actions on search results.
type ResultActionService struct {
	documents driving.DocumentService
	clipboard driven.Clipboard
	opener    driven.Opener
}

// NewResultActionService creates a new result action service.
// The clipboard and opener parameters are optional (can be nil).
func NewResultActionService(
	documents driving.DocumentService,
	clipboard driven.Clipboard,
	opener driven.Opener,
) *ResultActionService {
	return &ResultActionService{
		documents: documents,
		clipboard: clipboard,
		opener:    opener,
	}
}

// CopyPath copies the result's absolute path to the clipboard.
func (s *ResultActionService) CopyPath(_ context.Context, result *domain.SearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", domain.ErrInvalidInput)
	}
	if s.clipboard == nil {
		return fmt.Errorf("copy path: %w: no clipboard", ErrUnavailable)
	}
	if err := s.clipboard.WriteText(result.Path); err != nil {
		return fmt.Errorf("copy path: %w", err)
	}
	return nil
}

// CopyContent copies the result's raw markdown, as currently indexed,
// to the clipboard.
func (s *ResultActionService) CopyContent(ctx context.Context, result *domain.SearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", domain.ErrInvalidInput)
	}
	if s.clipboard == nil {
		return fmt.Errorf("copy content: %w: no clipboard", ErrUnavailable)
	}
	doc, err := s.documents.Get(ctx, result.Path)
	if err != nil {
		return fmt.Errorf("copy content: %w", err)
	}
	if err := s.clipboard.WriteText(doc.Content); err != nil {
		return fmt.Errorf("copy content: %w", err)
	}
	return nil
}

// CopyCodeBlock copies the n-th fenced code block of the result, as
// currently indexed, to the clipboard. n counts from zero.
func (s *ResultActionService) CopyCodeBlock(ctx context.Context, result *domain.SearchResult, n int) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", domain.ErrInvalidInput)
	}
	if s.clipboard == nil {
		return fmt.Errorf("copy code block: %w: no clipboard", ErrUnavailable)
	}
	doc, err := s.documents.Get(ctx, result.Path)
	if err != nil {
		return fmt.Errorf("copy code block: %w", err)
	}
	if n < 0 || n >= len(doc.CodeBlocks) {
		return fmt.Errorf("copy code block: %w: %s has %d code blocks", domain.ErrNotFound, result.RelPath, len(doc.CodeBlocks))
	}
	if err := s.clipboard.WriteText(doc.CodeBlocks[n].Content); err != nil {
		return fmt.Errorf("copy code block: %w", err)
	}
	return nil
}

// OpenDocument opens the result's file in the default application.
func (s *ResultActionService) OpenDocument(ctx context.Context, result *domain.SearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", domain.ErrInvalidInput)
	}
	if s.opener == nil {
		return fmt.Errorf("open: %w: no opener", ErrUnavailable)
	}
	if err := s.opener.Open(ctx, result.Path); err != nil {
		return fmt.Errorf("open %s: %w", result.RelPath, err)
	}
	return nil
}
