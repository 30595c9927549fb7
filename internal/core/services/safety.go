package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure SafetyGate implements the interface.
var _ driving.SafetyGate = (*SafetyGate)(nil)

// badWords is the offline heuristic used when the remote classifier fails.
var badWords = []string{"idiot", "stupid", "hate", "moron", "dumb"}

// flaggedNotice is shown when a query is flagged but moderation does not block.
const flaggedNotice = "Your message was flagged by the safety filter; continuing anyway."

// SafetyGate screens queries before retrieval.
type SafetyGate struct {
	moderator driven.Moderator
	enabled   bool
	block     bool
}

// NewSafetyGate creates a new safety gate.
// The moderator parameter is optional (can be nil); without it the local
// word list is used.
func NewSafetyGate(moderator driven.Moderator, settings domain.ModerationSettings) *SafetyGate {
	return &SafetyGate{
		moderator: moderator,
		enabled:   settings.Enabled,
		block:     settings.Block,
	}
}

// Classify labels text with the remote classifier, falling back to the
// local heuristic only when the remote call fails or no classifier is set.
func (g *SafetyGate) Classify(ctx context.Context, text string) (domain.ModerationResult, error) {
	if !g.enabled {
		return domain.ModerationResult{Source: domain.ModerationSourceSkipped}, nil
	}

	if g.moderator != nil {
		result, err := g.moderator.Moderate(ctx, text)
		if err == nil {
			result.Source = domain.ModerationSourceRemote
			return result, nil
		}
		if ctx.Err() != nil {
			return domain.ModerationResult{}, ctx.Err()
		}
		logger.Warn("%v; using local word list", fmt.Errorf("%w: %w", domain.ErrModerationUnavailable, err))
	}

	return localModeration(text), nil
}

// Check classifies text and applies the blocking policy.
func (g *SafetyGate) Check(ctx context.Context, text string) (driving.Verdict, error) {
	logger.Section("Moderation")

	result, err := g.Classify(ctx, text)
	if err != nil {
		return driving.Verdict{}, err
	}

	verdict := driving.Verdict{Result: result}
	if !result.Flagged {
		logger.Debug("Query passed moderation (%s)", result.Source)
		return verdict, nil
	}

	logger.Info("Query flagged (%s): %v", result.Source, result.FlaggedCategories())
	if g.block {
		verdict.Blocked = true
		verdict.Message = result.Refusal()
	} else {
		verdict.Message = flaggedNotice
	}
	return verdict, nil
}

// localModeration flags text containing any bad word, case-insensitively.
func localModeration(text string) domain.ModerationResult {
	lower := strings.ToLower(text)
	for _, w := range badWords {
		if strings.Contains(lower, w) {
			return domain.ModerationResult{
				Flagged:    true,
				Categories: map[string]bool{"harassment": true},
				Source:     domain.ModerationSourceLocal,
			}
		}
	}
	return domain.ModerationResult{
		Categories: map[string]bool{},
		Source:     domain.ModerationSourceLocal,
	}
}
