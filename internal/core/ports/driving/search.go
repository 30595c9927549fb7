package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SearchService retrieves nearest-neighbour candidates for a query.
type SearchService interface {
	// Search returns at most k hits in ascending distance order.
	Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error)
}
