package tui

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// MockLibrarianService implements driving.LibrarianService for testing.
type MockLibrarianService struct {
	RecommendFunc func(ctx context.Context, query string) (*domain.Turn, error)
	Books         map[string]string
}

func (m *MockLibrarianService) Prepare(_ context.Context) (int, error) {
	return len(m.Books), nil
}

func (m *MockLibrarianService) Recommend(ctx context.Context, query string) (*domain.Turn, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, query)
	}
	return &domain.Turn{Query: query}, nil
}

func (m *MockLibrarianService) SummaryByTitle(_ context.Context, title string) (string, error) {
	if s, ok := m.Books[title]; ok {
		return s, nil
	}
	return driving.NoExactMatch, nil
}

func (m *MockLibrarianService) Titles(_ context.Context) ([]string, error) {
	titles := make([]string, 0, len(m.Books))
	for t := range m.Books {
		titles = append(titles, t)
	}
	return titles, nil
}

// MockIndexService implements driving.IndexService for testing.
type MockIndexService struct {
	Docs int
}

func (m *MockIndexService) EnsureIndex(_ context.Context) (int, error)     { return m.Docs, nil }
func (m *MockIndexService) IndexBooks(_ context.Context) (int, error)      { return m.Docs, nil }
func (m *MockIndexService) ResetAndRebuild(_ context.Context) (int, error) { return m.Docs, nil }
func (m *MockIndexService) Count(_ context.Context) (int, error)           { return m.Docs, nil }
func (m *MockIndexService) Collection() string                            { return "books_test" }
