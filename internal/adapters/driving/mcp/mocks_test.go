package mcp

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	hits  []domain.SearchHit
	err   error
	limit int
}

func (m *mockSearchService) Search(_ context.Context, _ string, k int) ([]domain.SearchHit, error) {
	m.limit = k
	return m.hits, m.err
}

// mockLibrarianService is a mock implementation of driving.LibrarianService.
type mockLibrarianService struct {
	turn      *domain.Turn
	summaries map[string]string
	titles    []string
	err       error
}

func (m *mockLibrarianService) Prepare(_ context.Context) (int, error) {
	return len(m.titles), m.err
}

func (m *mockLibrarianService) Recommend(_ context.Context, _ string) (*domain.Turn, error) {
	return m.turn, m.err
}

func (m *mockLibrarianService) SummaryByTitle(_ context.Context, title string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if s, ok := m.summaries[title]; ok {
		return s, nil
	}
	return driving.NoExactMatch, nil
}

func (m *mockLibrarianService) Titles(_ context.Context) ([]string, error) {
	return m.titles, m.err
}
