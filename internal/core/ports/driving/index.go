package driving

import "context"

// IndexService manages the persistent book collection.
type IndexService interface {
	// EnsureIndex returns the document count, indexing the dataset first
	// only when the collection is empty.
	EnsureIndex(ctx context.Context) (int, error)

	// IndexBooks embeds and upserts every dataset record, returning the count.
	IndexBooks(ctx context.Context) (int, error)

	// ResetAndRebuild deletes all index state, then indexes the dataset.
	ResetAndRebuild(ctx context.Context) (int, error)

	// Count returns the number of documents in the active collection.
	Count(ctx context.Context) (int, error)

	// Collection returns the active collection name.
	Collection() string
}
