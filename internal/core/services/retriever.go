package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.SearchService = (*RetrieverService)(nil)

// RetrieverService finds the books nearest to a query.
type RetrieverService struct {
	embedder driven.EmbeddingService
	store    driven.CollectionStore
}

// NewRetrieverService creates a new retriever.
func NewRetrieverService(embedder driven.EmbeddingService, store driven.CollectionStore) *RetrieverService {
	return &RetrieverService{
		embedder: embedder,
		store:    store,
	}
}

// Search returns at most k hits in ascending distance order.
func (s *RetrieverService) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	logger.Section("Retrieval")

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}

	collection := domain.CollectionName(s.embedder.ModelName())
	logger.Debug("Query: %q, k=%d, collection=%s", query, k, collection)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrIndexUnavailable, err)
	}

	matches, err := s.store.Query(ctx, collection, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrIndexUnavailable, err)
	}

	hits := make([]domain.SearchHit, 0, len(matches))
	for _, m := range matches {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title = domain.UntitledPlaceholder
		}
		hits = append(hits, domain.SearchHit{
			ID:       m.ID,
			Title:    title,
			Summary:  m.Summary,
			Distance: m.Distance,
			Score:    1 - m.Distance,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Rank = i + 1
		logger.Debug("  #%d %s (score %.3f)", hits[i].Rank, hits[i].Title, hits[i].Score)
	}

	return hits, nil
}
