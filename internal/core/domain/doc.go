// Package domain defines the core business entities for the librarian.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - BookRecord / Catalog: the titled summaries loaded from the dataset
//   - IndexedDocument: a summary with its embedding in a named collection
//   - SearchHit: a ranked nearest-neighbour candidate for one query
//   - Recommendation: the single title picked for a query, with a rationale
//   - ModerationResult: the safety classification of a query
//   - Turn: one full pass of the recommendation pipeline
//   - Config: the explicit settings value handed to every component
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
