// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/librarian-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/librarian-cli/internal/adapters/driven/embedding/openai"
	openaiimage "github.com/custodia-labs/librarian-cli/internal/adapters/driven/image/openai"
	anthropicllm "github.com/custodia-labs/librarian-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/librarian-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/librarian-cli/internal/adapters/driven/llm/openai"
	openaimod "github.com/custodia-labs/librarian-cli/internal/adapters/driven/moderation/openai"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ratelimit"
	openaispeech "github.com/custodia-labs/librarian-cli/internal/adapters/driven/speech/openai"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds every AI adapter built from one configuration.
// Optional services are nil when not configured.
type Services struct {
	Embedding   driven.EmbeddingService
	LLM         driven.LLMService
	Moderator   driven.Moderator
	Speech      driven.SpeechSynthesizer
	Transcriber driven.Transcriber
	Images      driven.ImageGenerator

	// Warnings are non-fatal issues, e.g. an optional service left unconfigured.
	Warnings []string
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.Embedding != nil {
		s.Embedding.Close()
	}
	if s.LLM != nil {
		s.LLM.Close()
	}
}

// NewServices builds the adapters for cfg. One rate limiter is shared by
// every OpenAI adapter. Only a missing embedding service is an error.
func NewServices(cfg domain.Config) (*Services, error) {
	limiter := ratelimit.New(cfg.RequestsPerSecond)
	services := &Services{}

	embedding, err := CreateEmbeddingService(cfg.Embedding, limiter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedding == nil {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY or choose the ollama embedding provider",
			domain.ErrEmbeddingUnavailable)
	}
	services.Embedding = embedding

	if cfg.Search.UseLLM {
		llm, err := CreateLLMService(cfg.LLM, limiter)
		switch {
		case err != nil:
			services.warn("judge model unavailable (%v); picking the best-score match", err)
		case llm == nil:
			services.warn("judge model not configured; picking the best-score match")
		default:
			services.LLM = llm
		}
	}

	if cfg.APIKey == "" {
		if cfg.Moderation.Enabled {
			services.warn("no OpenAI API key; moderation uses the local word list")
		}
		return services, nil
	}

	if cfg.Moderation.Enabled {
		moderator, err := openaimod.NewModerator(openaimod.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Moderation.Model,
			Limiter: limiter,
		})
		if err != nil {
			services.warn("moderation unavailable (%v)", err)
		} else {
			services.Moderator = moderator
		}
	}

	speech, err := openaispeech.NewSpeech(openaispeech.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		TTSModel: cfg.Speech.Model,
		STTModel: cfg.Speech.STTModel,
		Limiter:  limiter,
	})
	if err != nil {
		services.warn("speech unavailable (%v)", err)
	} else {
		services.Speech = speech
		services.Transcriber = speech
	}

	images, err := openaiimage.NewImageGenerator(openaiimage.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Limiter: limiter,
	})
	if err != nil {
		services.warn("image generation unavailable (%v)", err)
	} else {
		services.Images = images
	}

	return services, nil
}

func (s *Services) warn(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// Ping checks connectivity of the embedding and judge services.
func (s *Services) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.Embedding.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if s.LLM != nil {
		if err := s.LLM.Ping(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
		}
	}
	return nil
}

// CreateEmbeddingService creates the embedding service for settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings domain.EmbeddingSettings, limiter *ratelimit.Limiter) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		dimensions := domain.EmbeddingDimensions()[settings.Model]
		if dimensions == 0 {
			dimensions = ollamaembed.DefaultDimensions
		}
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
			Limiter:    limiter,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the judge service for settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings domain.LLMSettings, limiter *ratelimit.Limiter) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Limiter: limiter,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
