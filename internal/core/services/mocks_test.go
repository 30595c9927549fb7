package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// --- Mock implementations ---

// vocabulary gives the keyword embedder one dimension per term.
var vocabulary = []string{
	"desert", "spice", "planet", "dune", "empire",
	"surveillance", "control", "party", "totalitarian", "big brother",
	"wizard", "magic", "school", "friendship",
	"whale", "sea", "obsession",
}

// keywordEmbedder implements driven.EmbeddingService by counting vocabulary
// terms, so related texts land close together.
type keywordEmbedder struct {
	mu       sync.Mutex
	model    string
	err      error
	calls    int
	batches  int
	embedded []string
}

func (m *keywordEmbedder) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(vocabulary)+1)
	for i, term := range vocabulary {
		v[i] = float32(strings.Count(lower, term))
	}
	// Bias keeps texts without any known term from becoming zero vectors.
	v[len(vocabulary)] = 0.01
	return v
}

func (m *keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *keywordEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
		m.embedded = append(m.embedded, t)
	}
	return out, nil
}

func (m *keywordEmbedder) Dimensions() int { return len(vocabulary) + 1 }

func (m *keywordEmbedder) ModelName() string {
	if m.model != "" {
		return m.model
	}
	return "mock-embed"
}

func (m *keywordEmbedder) Ping(_ context.Context) error { return nil }

func (m *keywordEmbedder) Close() error { return nil }

func (m *keywordEmbedder) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// mockLLM implements driven.LLMService with a canned reply.
type mockLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockModerator implements driven.Moderator.
type mockModerator struct {
	result domain.ModerationResult
	err    error
	calls  int
}

func (m *mockModerator) Moderate(_ context.Context, _ string) (domain.ModerationResult, error) {
	m.calls++
	if m.err != nil {
		return domain.ModerationResult{}, m.err
	}
	return m.result, nil
}

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptSelectorSystem: "Pick one book. Reply with JSON.",
		driven.PromptCover:          "Cover for '%s': %s.",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockSpeech implements driven.SpeechSynthesizer and driven.Transcriber.
type mockSpeech struct {
	audio      []byte
	err        error
	text       string
	voice      domain.Voice
	transcript string
}

func (m *mockSpeech) Synthesize(_ context.Context, text string, voice domain.Voice) ([]byte, error) {
	m.text = text
	m.voice = voice
	if m.err != nil {
		return nil, m.err
	}
	return m.audio, nil
}

func (m *mockSpeech) Transcribe(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.transcript, nil
}

// mockImages implements driven.ImageGenerator.
type mockImages struct {
	png   []byte
	err   error
	calls int
	req   driven.ImageRequest
}

func (m *mockImages) Generate(_ context.Context, req driven.ImageRequest) ([]byte, error) {
	m.calls++
	m.req = req
	if m.err != nil {
		return nil, m.err
	}
	return m.png, nil
}

// mockRetriever implements driving.SearchService and records calls.
type mockRetriever struct {
	hits  []domain.SearchHit
	err   error
	calls int
}

func (m *mockRetriever) Search(_ context.Context, _ string, k int) ([]domain.SearchHit, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if k < len(m.hits) {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

// mockIndex implements driving.IndexService and counts calls.
type mockIndex struct {
	count   int
	err     error
	ensures int
	resets  int
}

func (m *mockIndex) EnsureIndex(_ context.Context) (int, error) {
	m.ensures++
	return m.count, m.err
}

func (m *mockIndex) IndexBooks(_ context.Context) (int, error) { return m.count, m.err }

func (m *mockIndex) ResetAndRebuild(_ context.Context) (int, error) {
	m.resets++
	return m.count, m.err
}

func (m *mockIndex) Count(_ context.Context) (int, error) { return m.count, m.err }

func (m *mockIndex) Collection() string { return "books_mock" }

var _ driving.IndexService = (*mockIndex)(nil)

// --- Fixtures ---

// sampleDataset is a title map with four well-separated books.
const sampleDataset = `{
  "Dune": "On the desert planet Arrakis, the spice melange shapes an empire. Paul Atreides fights for the desert planet and its spice.",
  "1984": "Winston Smith lives under the totalitarian Party, where Big Brother keeps everyone under surveillance and thought control.",
  "Harry Potter and the Philosopher's Stone": "A young wizard discovers magic, school and friendship at Hogwarts.",
  "Moby-Dick": "Captain Ahab's obsession with the white whale drives the crew across the sea."
}`

// writeDataset writes content to a dataset file and returns its path.
func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book_summaries.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func hitsFor(titles ...string) []domain.SearchHit {
	hits := make([]domain.SearchHit, len(titles))
	for i, t := range titles {
		d := 0.1 * float64(i+1)
		hits[i] = domain.SearchHit{
			ID:       domain.BookID(t),
			Title:    t,
			Summary:  "Summary of " + t,
			Distance: d,
			Score:    1 - d,
			Rank:     i + 1,
		}
	}
	return hits
}
