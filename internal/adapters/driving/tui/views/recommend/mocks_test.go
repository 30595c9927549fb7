package recommend

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

type mockLibrarian struct {
	turn    *domain.Turn
	err     error
	count   int
	queries []string
}

func (m *mockLibrarian) Prepare(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockLibrarian) Recommend(_ context.Context, query string) (*domain.Turn, error) {
	m.queries = append(m.queries, query)
	return m.turn, m.err
}

func (m *mockLibrarian) SummaryByTitle(_ context.Context, _ string) (string, error) {
	return driving.NoExactMatch, nil
}

func (m *mockLibrarian) Titles(_ context.Context) ([]string, error) {
	return nil, nil
}

type mockIndex struct {
	count  int
	resets int
}

func (m *mockIndex) EnsureIndex(_ context.Context) (int, error) { return m.count, nil }
func (m *mockIndex) IndexBooks(_ context.Context) (int, error)  { return m.count, nil }
func (m *mockIndex) Count(_ context.Context) (int, error)       { return m.count, nil }
func (m *mockIndex) Collection() string                        { return "books_test" }

func (m *mockIndex) ResetAndRebuild(_ context.Context) (int, error) {
	m.resets++
	return m.count, nil
}

type mockSynthesis struct {
	voice domain.Voice
}

func (m *mockSynthesis) Voices() []domain.Voice   { return domain.AllVoices() }
func (m *mockSynthesis) Voice() domain.Voice      { return m.voice }
func (m *mockSynthesis) SetVoice(v domain.Voice) { m.voice = v.OrDefault() }

func (m *mockSynthesis) Speak(_ context.Context, _, _ string) (string, error) {
	return "speech.mp3", nil
}

func (m *mockSynthesis) Cover(_ context.Context, _, _ string) (string, error) {
	return "cover.png", nil
}

func (m *mockSynthesis) Transcribe(_ context.Context, _ string) (string, error) {
	return "", nil
}

func duneTurn() *domain.Turn {
	return &domain.Turn{
		Query: "a desert planet",
		Hits: []domain.SearchHit{
			{Title: "Dune", Summary: "Spice and sand.", Distance: 0.1, Score: 0.9, Rank: 1},
			{Title: "1984", Summary: "Big Brother.", Distance: 0.5, Score: 0.5, Rank: 2},
		},
		Recommendation: &domain.Recommendation{Title: "Dune", Why: "It is set on a desert planet."},
		Summary:        "Paul Atreides travels to Arrakis.",
	}
}
