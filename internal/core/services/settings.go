package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIKey          = "openai.api_key"
	keyBaseURL         = "openai.base_url"
	keyRPS             = "openai.rps"
	keyDataFile        = "data.file"
	keyOutputDir       = "output.dir"
	keyAdmin           = "admin"
	keyIndexDir        = "index.dir"
	keyAutoReset       = "index.auto_reset"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyTopK            = "search.top_k"
	keyUseLLM          = "search.use_llm"
	keyModerationOn    = "moderation.enabled"
	keyModerationBlock = "moderation.block"
	keyModerationModel = "moderation.model"
	keySpeechOn        = "speech.enabled"
	keyTTSModel        = "speech.model"
	keySTTModel        = "speech.stt_model"
	keyVoice           = "speech.voice"
	keyImagesOn        = "image.enabled"
	keyImageModel      = "image.model"
	keyImageSize       = "image.size"
	keyImageQuality    = "image.quality"
	keyImageStyle      = "image.style"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// setting binds a config file key and an environment variable to a field.
type setting struct {
	key   string
	env   string
	kind  valueKind
	apply func(cfg *domain.Config, v value)

	// validate rejects values no component can use. Optional.
	validate func(v value) error

	// check rejects values on Set only; Load falls back instead. Optional.
	check func(v value) error
}

// value is one raw setting, converted on demand.
type value struct {
	raw any
}

func (v value) String() string {
	switch t := v.raw.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func (v value) Int() (int, error) {
	switch t := v.raw.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		return int(t), nil
	default:
		return strconv.Atoi(v.String())
	}
}

func (v value) Float() (float64, error) {
	switch t := v.raw.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return strconv.ParseFloat(v.String(), 64)
	}
}

func (v value) Bool() bool {
	switch t := v.raw.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return ParseBool(v.String())
	}
}

// ParseBool treats "0", "false" and "no" (any case, trimmed) as false and
// anything else as true.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false", "no":
		return false
	default:
		return true
	}
}

func validateProvider(allowed []domain.AIProvider) func(v value) error {
	return func(v value) error {
		p := domain.AIProvider(strings.ToLower(v.String()))
		for _, a := range allowed {
			if p == a {
				return nil
			}
		}
		return fmt.Errorf("%w: unsupported provider %q", domain.ErrInvalidInput, v.String())
	}
}

func validateTopK(v value) error {
	k, err := v.Int()
	if err != nil {
		return fmt.Errorf("%w: top_k must be an integer", domain.ErrInvalidInput)
	}
	if k < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	return nil
}

func validateRPS(v value) error {
	if _, err := v.Float(); err != nil {
		return fmt.Errorf("%w: rps must be a number", domain.ErrInvalidInput)
	}
	return nil
}

func validateVoice(v value) error {
	if !domain.Voice(strings.ToLower(v.String())).IsValid() {
		return fmt.Errorf("%w: unknown voice %q", domain.ErrInvalidInput, v.String())
	}
	return nil
}

// settings is the full key table, in display order.
var settings = []setting{
	{key: keyAPIKey, env: "OPENAI_API_KEY", apply: func(c *domain.Config, v value) { c.APIKey = v.String() }},
	{key: keyBaseURL, env: "OPENAI_BASE_URL", apply: func(c *domain.Config, v value) { c.BaseURL = v.String() }},
	{key: keyRPS, env: "OPENAI_RPS", kind: kindFloat, validate: validateRPS, apply: func(c *domain.Config, v value) {
		if f, err := v.Float(); err == nil {
			c.RequestsPerSecond = f
		}
	}},
	{key: keyDataFile, env: "DATA_FILE", apply: func(c *domain.Config, v value) { c.DataFile = v.String() }},
	{key: keyOutputDir, env: "OUTPUT_DIR", apply: func(c *domain.Config, v value) { c.OutputDir = v.String() }},
	{key: keyAdmin, env: "SMARTLIB_ADMIN", kind: kindBool, apply: func(c *domain.Config, v value) { c.Admin = v.Bool() }},
	{key: keyIndexDir, env: "CHROMA_PERSIST_DIR", apply: func(c *domain.Config, v value) { c.Index.Dir = v.String() }},
	{key: keyAutoReset, env: "AUTO_RESET", kind: kindBool, apply: func(c *domain.Config, v value) { c.Index.AutoReset = v.Bool() }},
	{
		key: keyEmbedProvider, env: "EMBED_PROVIDER", validate: validateProvider(domain.AllEmbeddingProviders()),
		apply: func(c *domain.Config, v value) { c.Embedding.Provider = domain.AIProvider(strings.ToLower(v.String())) },
	},
	{key: keyEmbedModel, env: "EMBED_MODEL", apply: func(c *domain.Config, v value) { c.Embedding.Model = v.String() }},
	{key: keyEmbedBaseURL, env: "EMBED_BASE_URL", apply: func(c *domain.Config, v value) { c.Embedding.BaseURL = v.String() }},
	{key: keyEmbedAPIKey, env: "CHROMA_OPENAI_API_KEY", apply: func(c *domain.Config, v value) { c.Embedding.APIKey = v.String() }},
	{
		key: keyLLMProvider, env: "LLM_PROVIDER", validate: validateProvider(domain.AllLLMProviders()),
		apply: func(c *domain.Config, v value) { c.LLM.Provider = domain.AIProvider(strings.ToLower(v.String())) },
	},
	{key: keyLLMModel, env: "TEXT_MODEL", apply: func(c *domain.Config, v value) { c.LLM.Model = v.String() }},
	{key: keyLLMBaseURL, env: "LLM_BASE_URL", apply: func(c *domain.Config, v value) { c.LLM.BaseURL = v.String() }},
	{key: keyLLMAPIKey, env: "LLM_API_KEY", apply: func(c *domain.Config, v value) { c.LLM.APIKey = v.String() }},
	{key: keyTopK, env: "TOP_K", kind: kindInt, validate: validateTopK, apply: func(c *domain.Config, v value) {
		if k, err := v.Int(); err == nil {
			c.Search.TopK = k
		}
	}},
	{key: keyUseLLM, env: "USE_LLM", kind: kindBool, apply: func(c *domain.Config, v value) { c.Search.UseLLM = v.Bool() }},
	{key: keyModerationOn, env: "MODERATION_ON", kind: kindBool, apply: func(c *domain.Config, v value) { c.Moderation.Enabled = v.Bool() }},
	{key: keyModerationBlock, env: "MODERATION_BLOCK", kind: kindBool, apply: func(c *domain.Config, v value) { c.Moderation.Block = v.Bool() }},
	{key: keyModerationModel, env: "MODERATION_MODEL", apply: func(c *domain.Config, v value) { c.Moderation.Model = v.String() }},
	{key: keySpeechOn, env: "TTS_ON", kind: kindBool, apply: func(c *domain.Config, v value) { c.Speech.Enabled = v.Bool() }},
	{key: keyTTSModel, env: "TTS_MODEL", apply: func(c *domain.Config, v value) { c.Speech.Model = v.String() }},
	{key: keySTTModel, env: "STT_MODEL", apply: func(c *domain.Config, v value) { c.Speech.STTModel = v.String() }},
	{
		key: keyVoice, env: "VOICE", check: validateVoice,
		apply: func(c *domain.Config, v value) { c.Speech.Voice = domain.Voice(strings.ToLower(v.String())).OrDefault() },
	},
	{key: keyImagesOn, env: "IMAGES_ON", kind: kindBool, apply: func(c *domain.Config, v value) { c.Image.Enabled = v.Bool() }},
	{key: keyImageModel, env: "IMAGE_MODEL", apply: func(c *domain.Config, v value) { c.Image.Model = v.String() }},
	{key: keyImageSize, env: "IMAGE_SIZE", apply: func(c *domain.Config, v value) { c.Image.Size = v.String() }},
	{key: keyImageQuality, env: "IMAGE_QUALITY", apply: func(c *domain.Config, v value) { c.Image.Quality = v.String() }},
	{key: keyImageStyle, env: "IMAGE_STYLE", apply: func(c *domain.Config, v value) { c.Image.Style = domain.ParseImageStyle(v.String()) }},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// LookupEnvFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupEnvFunc func(key string) (string, bool)

// SettingsService builds the effective configuration from defaults, the
// config file and the environment, and edits the config file.
type SettingsService struct {
	configStore driven.ConfigStore
	configDir   string
	lookupEnv   LookupEnvFunc
}

// NewSettingsService creates a new settings service.
// The lookupEnv parameter is optional (can be nil); without it only the
// config file is read.
func NewSettingsService(configStore driven.ConfigStore, configDir string, lookupEnv LookupEnvFunc) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &SettingsService{
		configStore: configStore,
		configDir:   configDir,
		lookupEnv:   lookupEnv,
	}
}

// Load builds the configuration. Precedence: defaults, then the config
// file, then the environment. Empty environment values are ignored.
func (s *SettingsService) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig(s.configDir)
	explicit := make(map[string]bool)

	for _, st := range settings {
		raw, ok := s.configStore.Get(st.key)
		if env, found := s.lookupEnv(st.env); found && strings.TrimSpace(env) != "" {
			raw, ok = env, true
		}
		if !ok {
			continue
		}
		v := value{raw: raw}
		if st.validate != nil {
			if err := st.validate(v); err != nil {
				return domain.Config{}, fmt.Errorf("%s: %w", st.key, err)
			}
		}
		st.apply(&cfg, v)
		explicit[st.key] = true
	}

	s.resolveProviders(&cfg, explicit)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// resolveProviders fills provider-specific defaults that depend on other keys.
func (s *SettingsService) resolveProviders(cfg *domain.Config, explicit map[string]bool) {
	if !explicit[keyEmbedModel] {
		if m, ok := domain.DefaultEmbeddingModels()[cfg.Embedding.Provider]; ok {
			cfg.Embedding.Model = m
		}
	}
	if !explicit[keyLLMModel] {
		if m, ok := domain.DefaultLLMModels()[cfg.LLM.Provider]; ok {
			cfg.LLM.Model = m
		}
	}

	if cfg.Embedding.Provider == domain.AIProviderOpenAI {
		if cfg.Embedding.APIKey == "" {
			cfg.Embedding.APIKey = cfg.APIKey
		}
		if cfg.Embedding.BaseURL == "" {
			cfg.Embedding.BaseURL = cfg.BaseURL
		}
	}

	switch cfg.LLM.Provider {
	case domain.AIProviderOpenAI:
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = cfg.APIKey
		}
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = cfg.BaseURL
		}
	case domain.AIProviderAnthropic:
		if cfg.LLM.APIKey == "" {
			if key, ok := s.lookupEnv("ANTHROPIC_API_KEY"); ok {
				cfg.LLM.APIKey = strings.TrimSpace(key)
			}
		}
	}
}

// Set validates and persists one config file key.
func (s *SettingsService) Set(key, raw string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	v := value{raw: raw}
	for _, validate := range []func(value) error{st.validate, st.check} {
		if validate == nil {
			continue
		}
		if err := validate(v); err != nil {
			return err
		}
	}

	var stored any
	switch st.kind {
	case kindInt:
		n, err := v.Int()
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindFloat:
		f, err := v.Float()
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		stored = f
	case kindBool:
		stored = v.Bool()
	default:
		stored = v.String()
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Entries returns the persisted config file keys and values.
func (s *SettingsService) Entries() map[string]any {
	out := make(map[string]any)
	for _, key := range s.configStore.Keys() {
		if v, ok := s.configStore.Get(key); ok {
			out[key] = v
		}
	}
	return out
}

// Keys returns every key the config file understands, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settings))
	for i, st := range settings {
		keys[i] = st.key
	}
	sort.Strings(keys)
	return keys
}

// EnvVar returns the environment variable that overrides key.
func (s *SettingsService) EnvVar(key string) string {
	st, _ := lookupSetting(key)
	return st.env
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}
