package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure LibrarianService implements the interface.
var _ driving.LibrarianService = (*LibrarianService)(nil)

// NoMatchesNotice is attached to turns whose retrieval came back empty.
const NoMatchesNotice = "No matching books found."

// LibrarianService runs the recommendation pipeline:
// moderation, retrieval, selection, summary lookup and optional synthesis.
type LibrarianService struct {
	catalog   driving.CatalogService
	index     driving.IndexService
	retriever driving.SearchService
	selector  driving.SelectorService
	gate      driving.SafetyGate
	synthesis driving.SynthesisService

	topK      int
	autoReset bool

	mu    sync.Mutex
	ready bool
	count int
	speak bool
	cover bool
}

// NewLibrarianService creates the pipeline.
// The synthesis parameter is optional (can be nil).
func NewLibrarianService(
	catalog driving.CatalogService,
	index driving.IndexService,
	retriever driving.SearchService,
	selector driving.SelectorService,
	gate driving.SafetyGate,
	synthesis driving.SynthesisService,
	cfg domain.Config,
) *LibrarianService {
	return &LibrarianService{
		catalog:   catalog,
		index:     index,
		retriever: retriever,
		selector:  selector,
		gate:      gate,
		synthesis: synthesis,
		topK:      cfg.Search.TopK,
		autoReset: cfg.Index.AutoReset,
		speak:     cfg.Speech.Enabled,
		cover:     cfg.Image.Enabled,
	}
}

// SetSynthesis switches speech and cover generation on or off.
func (s *LibrarianService) SetSynthesis(speak, cover bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speak = speak
	s.cover = cover
}

// Prepare makes the index usable once per service lifetime: a rebuild when
// auto-reset is set, otherwise indexing only an empty collection.
// It returns the number of indexed books.
func (s *LibrarianService) Prepare(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return s.count, nil
	}

	var (
		n   int
		err error
	)
	if s.autoReset {
		n, err = s.index.ResetAndRebuild(ctx)
	} else {
		n, err = s.index.EnsureIndex(ctx)
	}
	if err != nil {
		return 0, err
	}

	s.ready = true
	s.count = n
	return n, nil
}

// Recommend runs one pass of the pipeline for query.
func (s *LibrarianService) Recommend(ctx context.Context, query string) (*domain.Turn, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	turn := &domain.Turn{ID: uuid.NewString(), Query: query}
	logger.Debug("Turn %s: %q", turn.ID, query)

	verdict, err := s.gate.Check(ctx, query)
	if err != nil {
		return nil, err
	}
	turn.Moderation = &verdict.Result
	if verdict.Blocked {
		turn.Blocked = true
		turn.Refusal = verdict.Message
		return turn, nil
	}
	if verdict.Message != "" {
		turn.Notify(verdict.Message)
	}

	if _, err := s.Prepare(ctx); err != nil {
		return nil, err
	}

	hits, err := s.retriever.Search(ctx, query, s.topK)
	if err != nil {
		return nil, err
	}
	turn.Hits = hits
	if len(hits) == 0 {
		turn.Notify(NoMatchesNotice)
		return turn, nil
	}

	rec, err := s.selector.Select(ctx, query, hits)
	if err != nil {
		return nil, err
	}
	turn.Recommendation = &rec

	summary, err := s.SummaryByTitle(ctx, rec.Title)
	if err != nil || summary == driving.NoExactMatch {
		summary = hitSummary(hits, rec.Title)
	}
	turn.Summary = summary

	s.synthesise(ctx, turn)
	return turn, nil
}

// synthesise attaches optional artifacts; failures become notices.
func (s *LibrarianService) synthesise(ctx context.Context, turn *domain.Turn) {
	s.mu.Lock()
	speak, cover := s.speak, s.cover
	s.mu.Unlock()

	if s.synthesis == nil || (!speak && !cover) {
		return
	}

	logger.Section("Synthesis")
	rec := turn.Recommendation

	if speak {
		path, err := s.synthesis.Speak(ctx, rec.Title, rec.Why)
		if err != nil {
			logger.Warn("Speech failed: %v", err)
			turn.Notify(fmt.Sprintf("Audio unavailable: %v", err))
		} else {
			turn.AudioPath = path
		}
	}

	if cover {
		path, err := s.synthesis.Cover(ctx, rec.Title, rec.Why)
		if err != nil {
			logger.Warn("Cover generation failed: %v", err)
			turn.Notify(fmt.Sprintf("Cover unavailable: %v", err))
		} else {
			turn.CoverPath = path
		}
	}
}

// SummaryByTitle returns the full summary for an exact title, or NoExactMatch.
func (s *LibrarianService) SummaryByTitle(ctx context.Context, title string) (string, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return "", err
	}
	if summary, ok := catalog.Summary(strings.TrimSpace(title)); ok {
		return summary, nil
	}
	return driving.NoExactMatch, nil
}

// Titles lists every title in the dataset.
func (s *LibrarianService) Titles(ctx context.Context) ([]string, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Titles(), nil
}

func hitSummary(hits []domain.SearchHit, title string) string {
	for i := range hits {
		if hits[i].Title == title {
			return hits[i].Summary
		}
	}
	return hits[0].Summary
}
