package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// librarianFixture wires the real pipeline over in-memory adapters.
type librarianFixture struct {
	svc       *LibrarianService
	embedder  *keywordEmbedder
	llm       *mockLLM
	moderator *mockModerator
	store     *memory.CollectionStore
	cfg       domain.Config
}

func newLibrarianFixture(t *testing.T, llmReply string) *librarianFixture {
	t.Helper()

	cfg := domain.DefaultConfig(t.TempDir())
	cfg.OutputDir = t.TempDir()
	cfg.Search.TopK = 3
	cfg.Index.AutoReset = false

	f := &librarianFixture{
		embedder:  &keywordEmbedder{model: "text-embedding-3-small"},
		llm:       &mockLLM{reply: llmReply},
		moderator: &mockModerator{err: errors.New("offline")},
		store:     memory.NewCollectionStore(),
		cfg:       cfg,
	}

	catalog := NewCatalogService(writeDataset(t, sampleDataset))
	prompts := newMockPromptStore()
	f.svc = NewLibrarianService(
		catalog,
		NewIndexService(catalog, f.embedder, f.store),
		NewRetrieverService(f.embedder, f.store),
		NewSelectorService(f.llm, prompts, true),
		NewSafetyGate(f.moderator, cfg.Moderation),
		NewSynthesisService(nil, nil, nil, prompts, cfg),
		cfg,
	)
	return f
}

func TestLibrarianService_Recommend_SurveillanceAndControl(t *testing.T) {
	f := newLibrarianFixture(t, `{"title": "1984 (Orwell)", "why": "A chilling portrait of surveillance and control."}`)

	turn, err := f.svc.Recommend(context.Background(), "surveillance and control")
	require.NoError(t, err)

	require.NotNil(t, turn.Recommendation)
	assert.Equal(t, "1984", turn.Recommendation.Title)
	assert.Equal(t, "A chilling portrait of surveillance and control.", turn.Recommendation.Why)
	assert.False(t, turn.Recommendation.Fallback)
	assert.Equal(t, "1984", turn.Hits[0].Title)
	assert.Contains(t, turn.Summary, "Big Brother")
	assert.NotEmpty(t, turn.ID)
	assert.False(t, turn.Blocked)
}

func TestLibrarianService_Recommend_DesertPlanet(t *testing.T) {
	f := newLibrarianFixture(t, `{"title": "dune", "why": "Spice and sand."}`)

	turn, err := f.svc.Recommend(context.Background(), "a desert planet full of spice")
	require.NoError(t, err)

	require.NotNil(t, turn.Recommendation)
	assert.Equal(t, "Dune", turn.Recommendation.Title)
	assert.Contains(t, turn.Summary, "Arrakis")
}

func TestLibrarianService_Recommend_UnparsableJudge(t *testing.T) {
	f := newLibrarianFixture(t, "You should read 1984, it's great.")

	turn, err := f.svc.Recommend(context.Background(), "surveillance and control")
	require.NoError(t, err)

	require.NotNil(t, turn.Recommendation)
	assert.Equal(t, turn.Hits[0].Title, turn.Recommendation.Title)
	assert.Equal(t, domain.FallbackRationale, turn.Recommendation.Why)
	assert.True(t, turn.Recommendation.Fallback)
}

func TestLibrarianService_Recommend_TitleAlwaysFromHits(t *testing.T) {
	replies := []string{
		`{"title": "Brave New World", "why": "x"}`,
		`{"title": "", "why": "x"}`,
		`not json`,
		`{"title": "MOBY DICK", "why": "x"}`,
	}

	for _, reply := range replies {
		f := newLibrarianFixture(t, reply)
		turn, err := f.svc.Recommend(context.Background(), "whale obsession at sea")
		require.NoError(t, err)

		var titles []string
		for _, h := range turn.Hits {
			titles = append(titles, h.Title)
		}
		require.NotNil(t, turn.Recommendation)
		assert.Contains(t, titles, turn.Recommendation.Title, "reply %q", reply)
	}
}

func TestLibrarianService_Recommend_BlockedBeforeRetrieval(t *testing.T) {
	retriever := &mockRetriever{hits: hitsFor("Dune")}
	index := &mockIndex{count: 4}
	cfg := domain.DefaultConfig(t.TempDir())
	catalog := NewCatalogService(writeDataset(t, sampleDataset))

	svc := NewLibrarianService(
		catalog,
		index,
		retriever,
		NewSelectorService(nil, newMockPromptStore(), false),
		NewSafetyGate(nil, cfg.Moderation),
		nil,
		cfg,
	)

	turn, err := svc.Recommend(context.Background(), "you are an idiot")
	require.NoError(t, err)

	assert.True(t, turn.Blocked)
	assert.Equal(t, domain.RefusalDisrespectful, turn.Refusal)
	assert.Nil(t, turn.Recommendation)
	assert.Zero(t, retriever.calls)
	assert.Zero(t, index.ensures)
	assert.Zero(t, index.resets)
}

func TestLibrarianService_Recommend_FlaggedNotBlocking(t *testing.T) {
	f := newLibrarianFixture(t, `{"title": "Dune", "why": "x"}`)
	f.svc.gate = NewSafetyGate(nil, domain.ModerationSettings{Enabled: true, Block: false})

	turn, err := f.svc.Recommend(context.Background(), "a dumb question about desert spice")
	require.NoError(t, err)

	assert.False(t, turn.Blocked)
	require.NotNil(t, turn.Recommendation)
	assert.Contains(t, turn.Notices, flaggedNotice)
}

func TestLibrarianService_Recommend_EmptyQuery(t *testing.T) {
	f := newLibrarianFixture(t, "")

	_, err := f.svc.Recommend(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLibrarianService_Recommend_NoHits(t *testing.T) {
	cfg := domain.DefaultConfig(t.TempDir())
	svc := NewLibrarianService(
		NewCatalogService(writeDataset(t, sampleDataset)),
		&mockIndex{},
		&mockRetriever{},
		NewSelectorService(nil, newMockPromptStore(), false),
		NewSafetyGate(nil, cfg.Moderation),
		nil,
		cfg,
	)

	turn, err := svc.Recommend(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Nil(t, turn.Recommendation)
	assert.Equal(t, []string{NoMatchesNotice}, turn.Notices)
}

func TestLibrarianService_Recommend_IndexFailure(t *testing.T) {
	f := newLibrarianFixture(t, "")
	f.embedder.err = errors.New("connection refused")

	_, err := f.svc.Recommend(context.Background(), "surveillance")
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestLibrarianService_Prepare(t *testing.T) {
	t.Run("ensure index once", func(t *testing.T) {
		index := &mockIndex{count: 4}
		cfg := domain.DefaultConfig(t.TempDir())
		cfg.Index.AutoReset = false
		svc := NewLibrarianService(nil, index, &mockRetriever{}, nil, NewSafetyGate(nil, cfg.Moderation), nil, cfg)

		for range 3 {
			n, err := svc.Prepare(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 4, n)
		}
		assert.Equal(t, 1, index.ensures)
		assert.Zero(t, index.resets)
	})

	t.Run("auto reset rebuilds once", func(t *testing.T) {
		index := &mockIndex{count: 4}
		cfg := domain.DefaultConfig(t.TempDir())
		cfg.Index.AutoReset = true
		svc := NewLibrarianService(nil, index, &mockRetriever{}, nil, NewSafetyGate(nil, cfg.Moderation), nil, cfg)

		for range 2 {
			_, err := svc.Prepare(context.Background())
			require.NoError(t, err)
		}
		assert.Equal(t, 1, index.resets)
		assert.Zero(t, index.ensures)
	})

	t.Run("failure is retried", func(t *testing.T) {
		index := &mockIndex{err: domain.ErrIndexUnavailable}
		cfg := domain.DefaultConfig(t.TempDir())
		cfg.Index.AutoReset = false
		svc := NewLibrarianService(nil, index, &mockRetriever{}, nil, NewSafetyGate(nil, cfg.Moderation), nil, cfg)

		_, err := svc.Prepare(context.Background())
		require.Error(t, err)

		index.err = nil
		index.count = 2
		n, err := svc.Prepare(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 2, index.ensures)
	})
}

func TestLibrarianService_Synthesis(t *testing.T) {
	f := newLibrarianFixture(t, `{"title": "1984", "why": "Big Brother."}`)
	speech := &mockSpeech{audio: []byte("mp3")}
	images := &mockImages{err: errors.New("content policy")}
	f.svc.synthesis = NewSynthesisService(speech, speech, images, newMockPromptStore(), f.cfg)
	f.svc.SetSynthesis(true, true)

	turn, err := f.svc.Recommend(context.Background(), "surveillance and control")
	require.NoError(t, err)

	assert.NotEmpty(t, turn.AudioPath)
	assert.Empty(t, turn.CoverPath)
	require.Len(t, turn.Notices, 1)
	assert.Contains(t, turn.Notices[0], "Cover unavailable")
}

func TestLibrarianService_SummaryByTitle(t *testing.T) {
	f := newLibrarianFixture(t, "")
	ctx := context.Background()

	summary, err := f.svc.SummaryByTitle(ctx, "Moby-Dick")
	require.NoError(t, err)
	assert.Contains(t, summary, "white whale")

	summary, err = f.svc.SummaryByTitle(ctx, "moby-dick")
	require.NoError(t, err)
	assert.Equal(t, driving.NoExactMatch, summary)
}

func TestLibrarianService_Titles(t *testing.T) {
	f := newLibrarianFixture(t, "")

	titles, err := f.svc.Titles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune", "1984", "Harry Potter and the Philosopher's Stone", "Moby-Dick"}, titles)
}
