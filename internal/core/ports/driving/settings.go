package driving

import "github.com/custodia-labs/responda-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetTopK updates how many knowledge matches are retrieved per question.
	SetTopK(topK int) error

	// SetMaxChunkChars updates the chunk size ceiling used at ingest time.
	SetMaxChunkChars(maxChars int) error

	// Keys returns the settings keys exposed to CRUD, in display order.
	Keys() []string

	// GetValue returns the stored value for a settings key. The boolean
	// is false when the key has never been set and its default applies.
	GetValue(key string) (any, bool, error)

	// SetValue parses a raw value according to the key's type and
	// persists it. Slice keys take comma-separated values.
	SetValue(key, raw string) error

	// Validate checks if current settings are complete.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
