package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SelectorService picks exactly one of the retrieved hits.
type SelectorService interface {
	// Select returns a recommendation whose title is one of the hit titles.
	// hits must not be empty.
	Select(ctx context.Context, query string, hits []domain.SearchHit) (domain.Recommendation, error)
}
