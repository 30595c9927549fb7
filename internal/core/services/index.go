package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// Embedding batch defaults.
const (
	DefaultEmbedBatchSize   = 32
	DefaultEmbedConcurrency = 4
)

// IndexService embeds the catalog into the collection for the active
// embedding model.
type IndexService struct {
	catalog  driving.CatalogService
	embedder driven.EmbeddingService
	store    driven.CollectionStore

	batchSize   int
	concurrency int
}

// NewIndexService creates a new index service.
func NewIndexService(
	catalog driving.CatalogService,
	embedder driven.EmbeddingService,
	store driven.CollectionStore,
) *IndexService {
	return &IndexService{
		catalog:     catalog,
		embedder:    embedder,
		store:       store,
		batchSize:   DefaultEmbedBatchSize,
		concurrency: DefaultEmbedConcurrency,
	}
}

// SetBatching overrides the embedding batch size and the number of
// batches embedded concurrently. Non-positive values keep the current setting.
func (s *IndexService) SetBatching(batchSize, concurrency int) {
	if batchSize > 0 {
		s.batchSize = batchSize
	}
	if concurrency > 0 {
		s.concurrency = concurrency
	}
}

// Collection returns the active collection name.
func (s *IndexService) Collection() string {
	return domain.CollectionName(s.embedder.ModelName())
}

// Count returns the number of documents in the active collection.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx, s.Collection())
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", domain.ErrIndexUnavailable, err)
	}
	return n, nil
}

// EnsureIndex indexes the dataset only when the collection is empty.
func (s *IndexService) EnsureIndex(ctx context.Context) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Debug("Collection %s already holds %d books", s.Collection(), n)
		return n, nil
	}
	return s.IndexBooks(ctx)
}

// ResetAndRebuild clears every collection, then indexes the dataset.
func (s *IndexService) ResetAndRebuild(ctx context.Context) (int, error) {
	logger.Info("Resetting index")
	if err := s.store.Reset(ctx); err != nil {
		return 0, fmt.Errorf("%w: reset: %w", domain.ErrIndexUnavailable, err)
	}
	return s.IndexBooks(ctx)
}

// IndexBooks embeds every record and upserts it by its stable id.
func (s *IndexService) IndexBooks(ctx context.Context) (int, error) {
	logger.Section("Indexing")

	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedShape) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: load dataset: %w", domain.ErrIndexUnavailable, err)
	}

	records := catalog.Records()
	if len(records) == 0 {
		logger.Warn("Dataset %s holds no books", s.catalog.Path())
		return 0, nil
	}

	collection := s.Collection()
	logger.Debug("Embedding %d books into %s (batch=%d, concurrency=%d)",
		len(records), collection, s.batchSize, s.concurrency)

	docs := make([]domain.IndexedDocument, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for start := 0; start < len(records); start += s.batchSize {
		end := min(start+s.batchSize, len(records))
		batch := records[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, r := range batch {
				texts[i] = r.Summary
			}

			vectors, err := s.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed books %d-%d: %w", start+1, end, err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embed books %d-%d: got %d vectors", start+1, end, len(vectors))
			}

			for i, r := range batch {
				docs[start+i] = domain.IndexedDocument{
					ID:         domain.BookID(r.Title),
					Collection: collection,
					Title:      r.Title,
					Summary:    r.Summary,
					Embedding:  vectors[i],
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("Indexing failed: %v", err)
		return 0, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	if err := s.store.Upsert(ctx, docs); err != nil {
		return 0, fmt.Errorf("%w: upsert: %w", domain.ErrIndexUnavailable, err)
	}

	logger.Info("Indexed %d books into %s", len(docs), collection)
	return len(docs), nil
}
