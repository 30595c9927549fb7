// Package mcp provides an MCP (Model Context Protocol) server adapter for the librarian.
// It lets AI assistants ask for book recommendations and read the catalog.
package mcp

import "errors"

// ErrMissingLibrarianService is returned when the librarian service is not provided.
var ErrMissingLibrarianService = errors.New("mcp: librarian service is required")
