package services

import (
	"context"
	"fmt"

	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/core/index"
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService reads documents from the current index snapshot.
type DocumentService struct {
	index *index.Index
}

// NewDocumentService creates a new document service.
func NewDocumentService(idx *index.Index) *DocumentService {
	return &DocumentService{index: idx}
}

// Get returns the indexed document at path.
func (s *DocumentService) Get(_ context.Context, path string) (*domain.Document, error) {
	doc, ok := s.index.Snapshot().Get(path)
	if !ok {
		return nil, fmt.Errorf("document %s: %w", path, domain.ErrNotFound)
	}
	return doc, nil
}

// List returns every document, most recently modified first.
func (s *DocumentService) List(_ context.Context) ([]*domain.Document, error) {
	docs := s.index.Snapshot().Documents()
	out := make([]*domain.Document, len(docs))
	copy(out, docs)
	return out, nil
}
