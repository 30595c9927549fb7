package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// CatalogService loads the book dataset.
type CatalogService interface {
	// Load reads and normalises the dataset file.
	// Returns domain.ErrUnsupportedShape when the JSON root is not an object or list.
	Load(ctx context.Context) (*domain.Catalog, error)

	// Path returns the dataset file path.
	Path() string
}
