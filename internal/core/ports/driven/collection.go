package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// CollectionStore persists book documents with their embeddings in named
// collections and answers nearest-neighbour queries over them.
type CollectionStore interface {
	// Upsert inserts or replaces documents by ID within their collection.
	Upsert(ctx context.Context, docs []domain.IndexedDocument) error

	// Query returns up to k documents nearest to vector by cosine distance,
	// in ascending distance order. An empty collection yields no matches.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]CollectionMatch, error)

	// Get returns one document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, collection, id string) (*domain.IndexedDocument, error)

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Collections lists every collection with its document count.
	Collections(ctx context.Context) ([]CollectionInfo, error)

	// Reset deletes every document in every collection.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CollectionMatch is one nearest-neighbour result.
type CollectionMatch struct {
	ID      string
	Title   string
	Summary string

	// Distance is 1 - cosine similarity.
	Distance float64
}

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	Name  string
	Count int
}
