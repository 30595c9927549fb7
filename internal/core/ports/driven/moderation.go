package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// Moderator classifies text for disallowed content using a hosted classifier.
// This is an optional service - when nil or failing, the safety gate falls
// back to its local heuristic.
type Moderator interface {
	// Moderate classifies text. Categories use the provider's names,
	// e.g. "harassment" or "hate/threatening".
	Moderate(ctx context.Context, text string) (domain.ModerationResult, error)
}
