// Command librarian recommends books from a local collection of summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/core/services"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetSettingsOpener(openSettings)
	cli.SetServicesBuilder(buildServices)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func configDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".librarian"), nil
}

func openSettings(dir string) (driving.SettingsService, error) {
	dir, err := configDir(dir)
	if err != nil {
		return nil, err
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, dir, os.LookupEnv), nil
}

// buildServices wires the pipeline for cfg.
func buildServices(cfg domain.Config) (*cli.Services, error) {
	store, err := sqlite.NewStore(cfg.Index.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	promptDir := ""
	if cfg.Index.Dir != "" {
		promptDir = filepath.Join(filepath.Dir(cfg.Index.Dir), "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	aiServices, err := ai.NewServices(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debug("embedding model %s, collection %s", cfg.Embedding.Model, cfg.Collection())

	catalog := services.NewCatalogService(cfg.DataFile)
	collections := store.CollectionStore()
	index := services.NewIndexService(catalog, aiServices.Embedding, collections)
	retriever := services.NewRetrieverService(aiServices.Embedding, collections)
	selector := services.NewSelectorService(aiServices.LLM, prompts, cfg.Search.UseLLM && aiServices.LLM != nil)
	gate := services.NewSafetyGate(aiServices.Moderator, cfg.Moderation)
	synthesis := services.NewSynthesisService(
		aiServices.Speech,
		aiServices.Transcriber,
		aiServices.Images,
		prompts,
		cfg,
	)
	librarian := services.NewLibrarianService(catalog, index, retriever, selector, gate, synthesis, cfg)

	return &cli.Services{
		Librarian: librarian,
		Search:    retriever,
		Index:     index,
		Synthesis: synthesis,
		Warnings:  aiServices.Warnings,
		Close: func() error {
			aiServices.Close()
			return store.Close()
		},
	}, nil
}
