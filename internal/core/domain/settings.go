package domain

import (
	"fmt"
	"path/filepath"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or the judge model.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name. It also names the collection.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if e.Provider != AIProviderOpenAI && e.Provider != AIProviderOllama {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds judge model configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds retrieval and selection behaviour.
type SearchSettings struct {
	// TopK is the number of retrieval candidates.
	TopK int

	// UseLLM selects the judge model path instead of the best-score default.
	UseLLM bool
}

// IndexSettings holds persistent index configuration.
type IndexSettings struct {
	// Dir is the directory holding the index database.
	Dir string

	// AutoReset rebuilds the index once per session on startup.
	AutoReset bool
}

// ModerationSettings holds safety gate configuration.
type ModerationSettings struct {
	// Enabled runs the classifier on every query.
	Enabled bool

	// Block stops the pipeline when a query is flagged.
	Block bool

	// Model is the remote classifier model.
	Model string
}

// SpeechSettings holds text-to-speech and transcription configuration.
type SpeechSettings struct {
	// Enabled synthesises the recommendation as audio on every turn.
	Enabled bool

	// Model is the text-to-speech model.
	Model string

	// STTModel is the transcription model.
	STTModel string

	// Voice is the synthesised voice.
	Voice Voice
}

// ImageSettings holds cover generation configuration.
type ImageSettings struct {
	// Enabled generates a cover for every recommendation.
	Enabled bool

	Model   string
	Size    string
	Quality string
	Style   ImageStyle
}

// Config is the process-wide configuration. It is built once at start
// and passed into every component; components never read the environment.
type Config struct {
	// APIKey is the OpenAI key used by moderation, speech and images.
	APIKey string

	// BaseURL overrides the OpenAI endpoint.
	BaseURL string

	// RequestsPerSecond caps calls to the hosted APIs.
	RequestsPerSecond float64

	// DataFile is the dataset JSON path.
	DataFile string

	// OutputDir receives audio and cover artifacts.
	OutputDir string

	// Admin shows retrieval details in the interactive surfaces.
	Admin bool

	Embedding  EmbeddingSettings
	LLM        LLMSettings
	Search     SearchSettings
	Index      IndexSettings
	Moderation ModerationSettings
	Speech     SpeechSettings
	Image      ImageSettings
}

// DefaultConfig returns configuration with the built-in defaults.
// configDir anchors the default index directory.
func DefaultConfig(configDir string) Config {
	return Config{
		RequestsPerSecond: 3,
		DataFile:          filepath.Join("data", "book_summaries.json"),
		OutputDir:         ".",
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultLLMModels()[AIProviderOpenAI],
		},
		Search: SearchSettings{
			TopK:   5,
			UseLLM: true,
		},
		Index: IndexSettings{
			Dir:       filepath.Join(configDir, "index"),
			AutoReset: true,
		},
		Moderation: ModerationSettings{
			Enabled: true,
			Block:   true,
			Model:   "omni-moderation-latest",
		},
		Speech: SpeechSettings{
			Model:    "gpt-4o-mini-tts",
			STTModel: "whisper-1",
			Voice:    VoiceAlloy,
		},
		Image: ImageSettings{
			Model:   "dall-e-3",
			Size:    "1024x1024",
			Quality: "standard",
			Style:   ImageStyleDefault,
		},
	}
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if c.Search.TopK < 1 {
		return fmt.Errorf("%w: top-k must be at least 1, got %d", ErrInvalidInput, c.Search.TopK)
	}
	if c.Embedding.Provider != AIProviderOpenAI && c.Embedding.Provider != AIProviderOllama {
		return fmt.Errorf("%w: unsupported embedding provider %q", ErrInvalidInput, c.Embedding.Provider)
	}
	if !c.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unsupported llm provider %q", ErrInvalidInput, c.LLM.Provider)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: data file is required", ErrInvalidInput)
	}
	return nil
}

// Collection returns the collection name for the configured embedding model.
func (c Config) Collection() string {
	return CollectionName(c.Embedding.Model)
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that can act as the judge.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
