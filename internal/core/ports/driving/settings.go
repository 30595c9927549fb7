package driving

import "github.com/custodia-labs/librarian-cli/internal/core/domain"

// SettingsService builds the effective configuration and edits the config file.
type SettingsService interface {
	// Load builds the configuration from defaults, the config file and the
	// environment, in increasing precedence.
	Load() (domain.Config, error)

	// Set validates and persists one config file key.
	Set(key, value string) error

	// Entries returns the persisted config file keys and values.
	Entries() map[string]any

	// Keys returns every key the config file understands.
	Keys() []string

	// Path returns the config file path.
	Path() string
}
