package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// NoExactMatch is returned by SummaryByTitle for unknown titles.
const NoExactMatch = "No exact match found."

// LibrarianService runs the full recommendation pipeline.
type LibrarianService interface {
	// Prepare makes the index usable, once per service lifetime, and
	// returns the number of indexed books.
	Prepare(ctx context.Context) (int, error)

	// Recommend runs moderation, retrieval, selection and optional synthesis
	// for one query.
	Recommend(ctx context.Context, query string) (*domain.Turn, error)

	// SummaryByTitle returns the full summary for an exact title, or NoExactMatch.
	SummaryByTitle(ctx context.Context, title string) (string, error)

	// Titles lists every title in the dataset.
	Titles(ctx context.Context) ([]string, error)
}
