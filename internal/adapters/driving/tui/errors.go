package tui

import "errors"

// ErrMissingLibrarianService is returned when the librarian service is not provided.
var ErrMissingLibrarianService = errors.New("tui: librarian service is required")

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("tui: index service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
