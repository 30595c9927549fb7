package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure CollectionStore implements the interface.
var _ driven.CollectionStore = (*CollectionStore)(nil)

// CollectionStore is an in-memory implementation of driven.CollectionStore.
// Insertion order is kept per collection so equal distances rank stably.
type CollectionStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.IndexedDocument
}

// NewCollectionStore creates a new in-memory collection store.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{
		collections: make(map[string][]domain.IndexedDocument),
	}
}

// Upsert inserts or replaces documents by ID within their collection.
func (s *CollectionStore) Upsert(_ context.Context, docs []domain.IndexedDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range docs {
		if doc.Collection == "" || doc.ID == "" {
			return fmt.Errorf("saving book %q: %w: collection and id are required", doc.Title, domain.ErrInvalidInput)
		}
		doc.Embedding = append([]float32(nil), doc.Embedding...)

		existing := s.collections[doc.Collection]
		replaced := false
		for i := range existing {
			if existing[i].ID == doc.ID {
				existing[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			s.collections[doc.Collection] = append(existing, doc)
		}
	}
	return nil
}

// Query returns up to k documents nearest to vector.
func (s *CollectionStore) Query(
	_ context.Context, collection string, vector []float32, k int,
) ([]driven.CollectionMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []driven.CollectionMatch{}
	if k <= 0 {
		return matches, nil
	}
	for _, doc := range s.collections[collection] {
		distance, ok := domain.CosineDistance(vector, doc.Embedding)
		if !ok {
			return nil, fmt.Errorf("book %s: %w: cannot compare %d and %d dimensions",
				doc.ID, domain.ErrInvalidInput, len(vector), len(doc.Embedding))
		}
		matches = append(matches, driven.CollectionMatch{
			ID:       doc.ID,
			Title:    doc.Title,
			Summary:  doc.Summary,
			Distance: distance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Get retrieves a document by ID.
func (s *CollectionStore) Get(_ context.Context, collection, id string) (*domain.IndexedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.collections[collection] {
		if doc.ID == id {
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Count returns the number of documents in a collection.
func (s *CollectionStore) Count(_ context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection]), nil
}

// Collections lists every non-empty collection, sorted by name.
func (s *CollectionStore) Collections(_ context.Context) ([]driven.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]driven.CollectionInfo, 0, len(s.collections))
	for name, docs := range s.collections {
		if len(docs) > 0 {
			infos = append(infos, driven.CollectionInfo{Name: name, Count: len(docs)})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Reset deletes every collection.
func (s *CollectionStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string][]domain.IndexedDocument)
	return nil
}

// Close is a no-op for the memory store.
func (s *CollectionStore) Close() error {
	return nil
}
