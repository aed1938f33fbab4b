// Package tui provides the interactive terminal user interface for mdf.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs queries against the index.
	Search driving.SearchService

	// Documents loads the document shown in the preview.
	Documents driving.DocumentService

	// ResultAction copies and opens results. Optional.
	ResultAction driving.ResultActionService

	// Index reports index statistics. Optional.
	Index driving.IndexService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	search driving.SearchService,
	documents driving.DocumentService,
	resultAction driving.ResultActionService,
	index driving.IndexService,
) *Ports {
	return &Ports{
		Search:       search,
		Documents:    documents,
		ResultAction: resultAction,
		Index:        index,
	}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	return nil
}
