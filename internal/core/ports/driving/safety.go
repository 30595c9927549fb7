package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SafetyGate screens queries before retrieval.
type SafetyGate interface {
	// Classify labels text, falling back to the local heuristic when the
	// remote classifier fails.
	Classify(ctx context.Context, text string) (domain.ModerationResult, error)

	// Check classifies text and applies the blocking policy.
	Check(ctx context.Context, text string) (Verdict, error)
}

// Verdict is the safety gate's decision for one query.
type Verdict struct {
	Result domain.ModerationResult

	// Blocked stops the pipeline before retrieval.
	Blocked bool

	// Message is the refusal when blocked, or a notice when flagged but allowed.
	Message string
}
