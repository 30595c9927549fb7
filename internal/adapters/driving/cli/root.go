// Package cli provides the cobra command tree for the librarian binary.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Services holds the driving ports the commands run against.
type Services struct {
	Librarian driving.LibrarianService
	Search    driving.SearchService
	Index     driving.IndexService
	Synthesis driving.SynthesisService

	// Warnings are reported once after the services are built.
	Warnings []string

	// Close releases stores and clients. May be nil.
	Close func() error
}

// ServicesBuilder constructs the services for the effective configuration.
type ServicesBuilder func(cfg domain.Config) (*Services, error)

// SettingsOpener opens the settings service rooted at configDir.
// An empty configDir selects the default location.
type SettingsOpener func(configDir string) (driving.SettingsService, error)

var errServicesNotConfigured = errors.New("services not configured")

var (
	version = "dev"

	openSettings  SettingsOpener
	buildServices ServicesBuilder

	settingsService driving.SettingsService
	config          domain.Config

	services      *Services
	ownedServices bool
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataFile  string
	flagTopK      int
	flagNoLLM     bool
	flagAdmin     bool
)

var rootCmd = &cobra.Command{
	Use:   "librarian",
	Short: "Book recommendations from your summary collection",
	Long: `Librarian recommends one book from a local collection of summaries.

Each query is screened by a safety filter, matched against an embedded
index of the summaries, and a language model picks the best candidate
and explains why. Run without a subcommand to start an interactive chat.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runChat,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.librarian)")
	flags.StringVar(&flagDataFile, "data-file", "", "book summaries JSON file")
	flags.IntVar(&flagTopK, "top-k", 0, "number of retrieval candidates")
	flags.BoolVar(&flagNoLLM, "no-llm", false, "pick the best-scoring match without the judge model")
	flags.BoolVar(&flagAdmin, "admin", false, "show retrieval details")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsOpener sets how the settings service is opened.
func SetSettingsOpener(fn SettingsOpener) {
	openSettings = fn
}

// SetServicesBuilder sets how the services are built once configuration is known.
func SetServicesBuilder(fn ServicesBuilder) {
	buildServices = fn
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup resolves the effective configuration: settings file and
// environment first, then any flags given on the command line.
func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if openSettings != nil {
		s, err := openSettings(flagConfigDir)
		if err != nil {
			return fmt.Errorf("open settings: %w", err)
		}
		settingsService = s
	}

	if settingsService != nil {
		cfg, err := settingsService.Load()
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		config = cfg
	} else {
		config = domain.DefaultConfig(flagConfigDir)
	}

	applyFlags(cmd)
	return config.Validate()
}

func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("data-file") {
		config.DataFile = flagDataFile
	}
	if flags.Changed("top-k") {
		config.Search.TopK = flagTopK
	}
	if flags.Changed("no-llm") {
		config.Search.UseLLM = !flagNoLLM
	}
	if flags.Changed("admin") {
		config.Admin = flagAdmin
	}
}

// requireServices builds the services on first use.
func requireServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if buildServices == nil {
		return nil, errServicesNotConfigured
	}

	s, err := buildServices(config)
	if err != nil {
		return nil, err
	}
	for _, w := range s.Warnings {
		logger.Warn("%s", w)
	}
	services = s
	ownedServices = true
	return services, nil
}

func teardown(_ *cobra.Command, _ []string) error {
	defer logger.Sync()
	if services == nil || !ownedServices {
		return nil
	}
	s := services
	services = nil
	ownedServices = false
	if s.Close != nil {
		return s.Close()
	}
	return nil
}
