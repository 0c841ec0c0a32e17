package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/failcase-advisor/internal/core/domain"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driven"
	"github.com/custodia-labs/failcase-advisor/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCorpusDir           = "corpus.dir"
	keySearchTopK          = "search.top_k"
	keyEmbedProvider       = "embedding.provider"
	keyEmbedModel          = "embedding.model"
	keyEmbedBaseURL        = "embedding.base_url"
	keyEmbedAPIKey         = "embedding.api_key"
	keyEmbedDimensions     = "embedding.dimensions"
	keyEmbedConcurrency    = "embedding.batch_concurrency"
	keyEmbedRatePerSecond  = "embedding.rate_per_second"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyLLMTemperature      = "llm.temperature"
	keyLLMMaxTokens        = "llm.max_tokens"
	keyLLMRatePerSecond    = "llm.rate_per_second"
	keyLogSink             = "log.sink"
	keyLogPath             = "log.path"
	keyServerAddr          = "server.addr"
	keyServerBodyLimitMB   = "server.body_limit_mb"
	envOpenAIAPIKey        = "OPENAI_API_KEY"
	maxConfigurableTopK    = 100
	maxConfigurableWorkers = 64
)

// keyKind is the stored type of a config key.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindEmbedProvider
	kindLLMProvider
	kindLogSink
)

// settableKeys lists every key accepted by Set.
var settableKeys = map[string]keyKind{
	keyCorpusDir:          kindString,
	keySearchTopK:         kindInt,
	keyEmbedProvider:      kindEmbedProvider,
	keyEmbedModel:         kindString,
	keyEmbedBaseURL:       kindString,
	keyEmbedAPIKey:        kindString,
	keyEmbedDimensions:    kindInt,
	keyEmbedConcurrency:   kindInt,
	keyEmbedRatePerSecond: kindFloat,
	keyLLMProvider:        kindLLMProvider,
	keyLLMModel:           kindString,
	keyLLMBaseURL:         kindString,
	keyLLMAPIKey:          kindString,
	keyLLMTemperature:     kindFloat,
	keyLLMMaxTokens:       kindInt,
	keyLLMRatePerSecond:   kindFloat,
	keyLogSink:            kindLogSink,
	keyLogPath:            kindString,
	keyServerAddr:         kindString,
	keyServerBodyLimitMB:  kindInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// An empty OpenAI API key is filled from OPENAI_API_KEY.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	embedModel := s.getString(keyEmbedModel, "")
	if embedModel == "" {
		embedModel = domain.DefaultEmbeddingModels()[embedProvider]
	}

	settings := &domain.AppSettings{
		Corpus: domain.CorpusSettings{
			Dir: s.getString(keyCorpusDir, defaults.Corpus.Dir),
		},
		Search: domain.SearchSettings{
			TopK: s.getInt(keySearchTopK, defaults.Search.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:         embedProvider,
			Model:            embedModel,
			BaseURL:          s.configStore.GetString(keyEmbedBaseURL), // Empty is valid for cloud providers
			APIKey:           s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:       s.configStore.GetInt(keyEmbedDimensions),
			BatchConcurrency: s.getInt(keyEmbedConcurrency, defaults.Embedding.BatchConcurrency),
			RatePerSecond:    s.configStore.GetFloat(keyEmbedRatePerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:      s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:         s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:       s.configStore.GetString(keyLLMBaseURL),
			APIKey:        s.configStore.GetString(keyLLMAPIKey),
			Temperature:   s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			MaxTokens:     s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
			RatePerSecond: s.configStore.GetFloat(keyLLMRatePerSecond),
		},
		Log: domain.LogSettings{
			Sink: s.getLogSink(defaults.Log.Sink),
			Path: s.getString(keyLogPath, defaults.Log.Path),
		},
		Server: domain.ServerSettings{
			Addr:        s.getString(keyServerAddr, defaults.Server.Addr),
			BodyLimitMB: s.getInt(keyServerBodyLimitMB, defaults.Server.BodyLimitMB),
		},
	}

	if envKey := s.getenv(envOpenAIAPIKey); envKey != "" {
		if settings.Embedding.Provider == domain.AIProviderOpenAI && settings.Embedding.APIKey == "" {
			settings.Embedding.APIKey = envKey
		}
		if settings.LLM.Provider == domain.AIProviderOpenAI && settings.LLM.APIKey == "" {
			settings.LLM.APIKey = envKey
		}
	}

	return settings, nil
}

// Save persists application settings.
// Empty API keys are not written so that the environment can supply them.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyCorpusDir, settings.Corpus.Dir, false},
		{keySearchTopK, settings.Search.TopK, false},
		{keyEmbedProvider, settings.Embedding.Provider.String(), false},
		{keyEmbedModel, settings.Embedding.Model, false},
		{keyEmbedBaseURL, settings.Embedding.BaseURL, false},
		{keyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.APIKey == ""},
		{keyEmbedDimensions, settings.Embedding.Dimensions, false},
		{keyEmbedConcurrency, settings.Embedding.BatchConcurrency, false},
		{keyEmbedRatePerSecond, settings.Embedding.RatePerSecond, false},
		{keyLLMProvider, settings.LLM.Provider.String(), false},
		{keyLLMModel, settings.LLM.Model, false},
		{keyLLMBaseURL, settings.LLM.BaseURL, false},
		{keyLLMAPIKey, settings.LLM.APIKey, settings.LLM.APIKey == ""},
		{keyLLMTemperature, settings.LLM.Temperature, false},
		{keyLLMMaxTokens, settings.LLM.MaxTokens, false},
		{keyLLMRatePerSecond, settings.LLM.RatePerSecond, false},
		{keyLogSink, string(settings.Log.Sink), false},
		{keyLogPath, settings.Log.Path, false},
		{keyServerAddr, settings.Server.Addr, false},
		{keyServerBodyLimitMB, settings.Server.BodyLimitMB, false},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value according to the type of key and stores it.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(key, kind, strings.TrimSpace(value))
	if err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetAPIKey stores apiKey for every section that uses provider.
func (s *SettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if !provider.RequiresAPIKey() {
		return fmt.Errorf("%w: %s does not use an API key", domain.ErrInvalidInput, provider)
	}
	if apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	stored := false
	if settings.Embedding.Provider == provider {
		if err := s.configStore.Set(keyEmbedAPIKey, apiKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
		stored = true
	}
	if settings.LLM.Provider == provider {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
		stored = true
	}
	if !stored {
		return fmt.Errorf("%w: no section uses provider %s", domain.ErrInvalidInput, provider)
	}
	return nil
}

// Validate checks settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Corpus.Dir == "" {
		return fmt.Errorf("%w: corpus directory is empty", domain.ErrInvalidInput)
	}
	if settings.Search.TopK < 1 {
		return fmt.Errorf("%w: search.top_k must be at least 1", domain.ErrInvalidInput)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured",
			domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if !settings.Log.Sink.IsValid() {
		return fmt.Errorf("%w: unknown log sink %q", domain.ErrInvalidInput, settings.Log.Sink)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// parseSetting converts a CLI string into the stored type for key.
func parseSetting(key string, kind keyKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		if key == keySearchTopK && (n < 1 || n > maxConfigurableTopK) {
			return nil, fmt.Errorf("%w: %s must be between 1 and %d", domain.ErrInvalidInput, key, maxConfigurableTopK)
		}
		if key == keyEmbedConcurrency && n > maxConfigurableWorkers {
			return nil, fmt.Errorf("%w: %s must be at most %d", domain.ErrInvalidInput, key, maxConfigurableWorkers)
		}
		return n, nil

	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if f < 0 {
			return nil, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		return f, nil

	case kindEmbedProvider:
		p := domain.AIProvider(value)
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: invalid embedding provider %q", domain.ErrInvalidInput, value)
		}
		return value, nil

	case kindLLMProvider:
		p := domain.AIProvider(value)
		if !isLLMProvider(p) {
			return nil, fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidInput, value)
		}
		return value, nil

	case kindLogSink:
		if !domain.LogSink(value).IsValid() {
			return nil, fmt.Errorf("%w: invalid log sink %q", domain.ErrInvalidInput, value)
		}
		return value, nil

	default:
		return value, nil
	}
}

func isLLMProvider(p domain.AIProvider) bool {
	for _, candidate := range domain.AllLLMProviders() {
		if candidate == p {
			return true
		}
	}
	return false
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getLogSink(defaultVal domain.LogSink) domain.LogSink {
	val := domain.LogSink(s.configStore.GetString(keyLogSink))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}
