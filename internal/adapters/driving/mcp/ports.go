package mcp

import (
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Librarian runs recommendations and catalog lookups.
	Librarian driving.LibrarianService

	// Search exposes raw retrieval. Optional.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Librarian == nil {
		return ErrMissingLibrarianService
	}
	return nil
}
