// Package tui provides an interactive terminal user interface for the librarian.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Librarian runs the recommendation pipeline.
	Librarian driving.LibrarianService

	// Index rebuilds the collection on demand.
	Index driving.IndexService

	// Synthesis selects the speech voice. Optional.
	Synthesis driving.SynthesisService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Librarian == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingLibrarianService)
	}
	if p.Index == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingIndexService)
	}
	return nil
}
