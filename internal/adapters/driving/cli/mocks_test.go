package cli

import (
	"context"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// mockLibrarianService implements driving.LibrarianService for testing.
type mockLibrarianService struct {
	books     map[string]string
	turn      *domain.Turn
	err       error
	failOnce  bool
	prepErr   error
	lastQuery string
}

func (m *mockLibrarianService) Prepare(_ context.Context) (int, error) {
	return len(m.books), m.prepErr
}

func (m *mockLibrarianService) Recommend(_ context.Context, query string) (*domain.Turn, error) {
	m.lastQuery = query
	if m.err != nil {
		err := m.err
		if m.failOnce {
			m.err = nil
		}
		return nil, err
	}
	if m.turn != nil {
		t := *m.turn
		t.Query = query
		return &t, nil
	}
	return &domain.Turn{Query: query}, nil
}

func (m *mockLibrarianService) SummaryByTitle(_ context.Context, title string) (string, error) {
	if s, ok := m.books[title]; ok {
		return s, nil
	}
	return driving.NoExactMatch, nil
}

func (m *mockLibrarianService) Titles(_ context.Context) ([]string, error) {
	titles := make([]string, 0, len(m.books))
	for t := range m.books {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles, nil
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	hits  []domain.SearchHit
	lastK int
}

func (m *mockSearchService) Search(_ context.Context, _ string, k int) ([]domain.SearchHit, error) {
	m.lastK = k
	return m.hits, nil
}

// mockIndexService implements driving.IndexService for testing.
type mockIndexService struct {
	docs    int
	resets  int
	indexed int
}

func (m *mockIndexService) EnsureIndex(_ context.Context) (int, error) { return m.docs, nil }

func (m *mockIndexService) IndexBooks(_ context.Context) (int, error) {
	m.indexed++
	return m.docs, nil
}

func (m *mockIndexService) ResetAndRebuild(_ context.Context) (int, error) {
	m.resets++
	return m.docs, nil
}

func (m *mockIndexService) Count(_ context.Context) (int, error) { return m.docs, nil }
func (m *mockIndexService) Collection() string                  { return "books_openai_text_embedding_3_small" }

// mockSynthesisService implements driving.SynthesisService for testing.
type mockSynthesisService struct {
	voice      domain.Voice
	coverWhy   string
	transcript string
}

func (m *mockSynthesisService) Voices() []domain.Voice { return domain.AllVoices() }
func (m *mockSynthesisService) Voice() domain.Voice    { return m.voice.OrDefault() }
func (m *mockSynthesisService) SetVoice(v domain.Voice) {
	m.voice = v
}

func (m *mockSynthesisService) Speak(_ context.Context, _, _ string) (string, error) {
	return "out/speech.mp3", nil
}

func (m *mockSynthesisService) Cover(_ context.Context, _, why string) (string, error) {
	m.coverWhy = why
	return "out/cover.png", nil
}

func (m *mockSynthesisService) Transcribe(_ context.Context, _ string) (string, error) {
	return m.transcript, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	cfg     domain.Config
	entries map[string]any
}

func (m *mockSettingsService) Load() (domain.Config, error) { return m.cfg, nil }

func (m *mockSettingsService) Set(key, value string) error {
	if m.entries == nil {
		m.entries = make(map[string]any)
	}
	m.entries[key] = value
	return nil
}

func (m *mockSettingsService) Entries() map[string]any { return m.entries }

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Path() string { return "/tmp/librarian/config.toml" }

// testServices groups the mocks installed by setupTestServices.
type testServices struct {
	librarian *mockLibrarianService
	search    *mockSearchService
	index     *mockIndexService
	synthesis *mockSynthesisService
	settings  *mockSettingsService
}

func duneTurn() *domain.Turn {
	return &domain.Turn{
		Hits: []domain.SearchHit{
			{ID: "1", Title: "Dune", Summary: "Spice and sand.", Distance: 0.1, Score: 0.9, Rank: 1},
			{ID: "2", Title: "Hyperion", Summary: "Pilgrims.", Distance: 0.3, Score: 0.7, Rank: 2},
		},
		Recommendation: &domain.Recommendation{Title: "Dune", Why: "A desert epic."},
		Summary:        "Spice and sand.",
	}
}

// setupTestServices installs mock services and returns a cleanup func
// that restores package state.
func setupTestServices() (*testServices, func()) {
	cfg := domain.DefaultConfig("/tmp/librarian")
	cfg.APIKey = "sk-test-1234567890"

	ts := &testServices{
		librarian: &mockLibrarianService{
			books: map[string]string{"Dune": "Spice and sand.", "Hyperion": "Pilgrims."},
			turn:  duneTurn(),
		},
		search: &mockSearchService{hits: duneTurn().Hits},
		index:  &mockIndexService{docs: 2},
		synthesis: &mockSynthesisService{
			transcript: "something with dragons",
		},
		settings: &mockSettingsService{cfg: cfg},
	}

	prevServices, prevOwned := services, ownedServices
	prevSettings, prevOpen, prevBuild := settingsService, openSettings, buildServices

	services = &Services{
		Librarian: ts.librarian,
		Search:    ts.search,
		Index:     ts.index,
		Synthesis: ts.synthesis,
	}
	ownedServices = false
	settingsService = ts.settings
	openSettings = nil
	buildServices = nil

	return ts, func() {
		services, ownedServices = prevServices, prevOwned
		settingsService, openSettings, buildServices = prevSettings, prevOpen, prevBuild
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so values do not leak
// between tests sharing the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
