package driving

import "github.com/custodia-labs/failcase-advisor/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by dotted key, e.g. "search.top_k".
	Set(key, value string) error

	// SetAPIKey stores the API key for the given provider in both
	// the embedding and LLM sections where that provider is selected.
	SetAPIKey(provider domain.AIProvider, apiKey string) error

	// Validate checks settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}
