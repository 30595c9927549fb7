package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure SelectorService implements the interface.
var _ driving.SelectorService = (*SelectorService)(nil)

// ragContextPrefix introduces the retrieved candidates to the judge.
const ragContextPrefix = "RAG_CONTEXT: "

// selectorTemperature keeps the judge close to deterministic.
const selectorTemperature = 0.2

var (
	// jsonSpan matches from the first "{" to the last "}" across newlines.
	jsonSpan = regexp.MustCompile(`(?s)\{.*\}`)

	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

// judgeAnswer is the reply shape the judge is asked for.
type judgeAnswer struct {
	Title string `json:"title"`
	Why   string `json:"why"`
}

type ragResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type ragContext struct {
	Results []ragResult `json:"results"`
}

// SelectorService asks the judge model to pick one hit and explain it.
type SelectorService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	useLLM  bool
}

// NewSelectorService creates a new selector.
// The llm parameter is optional (can be nil); without it the best-score hit is picked.
func NewSelectorService(llm driven.LLMService, prompts driven.PromptStore, useLLM bool) *SelectorService {
	return &SelectorService{
		llm:     llm,
		prompts: prompts,
		useLLM:  useLLM,
	}
}

// Select returns a recommendation whose title is one of the hit titles.
func (s *SelectorService) Select(
	ctx context.Context, query string, hits []domain.SearchHit,
) (domain.Recommendation, error) {
	logger.Section("Selection")

	if len(hits) == 0 {
		return domain.Recommendation{}, fmt.Errorf("%w: no candidates to select from", domain.ErrInvalidInput)
	}

	if !s.useLLM || s.llm == nil {
		logger.Debug("Judge disabled, picking best-score hit")
		return fallbackPick(hits), nil
	}

	messages, err := s.messages(query, hits)
	if err != nil {
		logger.Warn("Building judge prompt failed: %v", err)
		return fallbackPick(hits), nil
	}

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		Temperature: selectorTemperature,
		JSON:        true,
	})
	if err != nil {
		logger.Warn("%v", fmt.Errorf("%w: %w", domain.ErrSelectorUnavailable, err))
		return fallbackPick(hits), nil
	}
	logger.Debug("Judge reply: %s", reply)

	answer, ok := parseJudgeReply(reply)
	if !ok {
		logger.Warn("Judge reply was not valid JSON, picking best-score hit")
		return fallbackPick(hits), nil
	}

	allowed := make([]string, len(hits))
	for i := range hits {
		allowed[i] = hits[i].Title
	}

	title := SnapTitle(answer.Title, allowed)
	if title != answer.Title {
		logger.Debug("Snapped judge title %q to %q", answer.Title, title)
	}

	why := strings.TrimSpace(answer.Why)
	if why == "" {
		why = domain.FallbackRationale
	}

	return domain.Recommendation{Title: title, Why: why}, nil
}

// messages builds the judge conversation: the system prompt, the user
// query, then the candidates as a second system message.
func (s *SelectorService) messages(query string, hits []domain.SearchHit) ([]driven.ChatMessage, error) {
	system, err := s.prompts.Load(driven.PromptSelectorSystem)
	if err != nil {
		return nil, fmt.Errorf("load selector prompt: %w", err)
	}

	rag := ragContext{Results: make([]ragResult, len(hits))}
	for i := range hits {
		rag.Results[i] = ragResult{Title: hits[i].Title, Summary: hits[i].Summary}
	}
	payload, err := json.Marshal(rag)
	if err != nil {
		return nil, fmt.Errorf("encode candidates: %w", err)
	}

	return []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: query},
		{Role: driven.RoleSystem, Content: ragContextPrefix + string(payload)},
	}, nil
}

// parseJudgeReply decodes the first {...} span of reply.
func parseJudgeReply(reply string) (judgeAnswer, bool) {
	span := jsonSpan.FindString(reply)
	if span == "" {
		return judgeAnswer{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return judgeAnswer{}, false
	}

	var answer judgeAnswer
	if title, ok := raw["title"].(string); ok {
		answer.Title = title
	}
	if why, ok := raw["why"].(string); ok {
		answer.Why = why
	}
	return answer, true
}

func fallbackPick(hits []domain.SearchHit) domain.Recommendation {
	return domain.Recommendation{
		Title:    hits[0].Title,
		Why:      domain.FallbackRationale,
		Fallback: true,
	}
}

// SnapTitle maps a judge's title onto one of the allowed titles: an exact
// match, then normalised equality, then normalised containment either way,
// else the first allowed title. Empty allowed returns candidate unchanged.
func SnapTitle(candidate string, allowed []string) string {
	var titles []string
	for _, t := range allowed {
		if t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return candidate
	}

	for _, t := range titles {
		if t == candidate {
			return t
		}
	}

	norm := normalizeTitle(candidate)
	for _, t := range titles {
		if normalizeTitle(t) == norm {
			return t
		}
	}

	if norm != "" {
		for _, t := range titles {
			tn := normalizeTitle(t)
			if strings.Contains(tn, norm) || strings.Contains(norm, tn) {
				return t
			}
		}
	}

	return titles[0]
}

// normalizeTitle lowercases s and collapses non-alphanumeric runs to one space.
func normalizeTitle(s string) string {
	return strings.TrimSpace(nonAlnum.ReplaceAllString(strings.ToLower(s), " "))
}
