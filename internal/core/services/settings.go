package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyMaxChunkChars  = "processing.max_chunk_chars"
	keyTopK           = "processing.top_k"
	keyMaxEmbedChars  = "processing.max_embed_chars"
	keyThrottleRPS    = "processing.throttle_rps"
	keyDetectMinLen   = "detection.min_length"
	keyDetectStarters = "detection.starter_words"
	keyDetectVerbs    = "detection.imperative_verbs"
	keyDetectGlyphs   = "detection.bullet_glyphs"
)

// settingKind describes how a raw value is parsed before storage.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindSlice
	kindProvider
)

// settingsSchema maps every key exposed to settings CRUD onto its value
// kind, in display order.
var settingsSchema = []struct {
	key  string
	kind settingKind
}{
	{keyEmbedProvider, kindProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindString},
	{keyLLMProvider, kindProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindString},
	{keyMaxChunkChars, kindInt},
	{keyTopK, kindInt},
	{keyMaxEmbedChars, kindInt},
	{keyThrottleRPS, kindFloat},
	{keyDetectMinLen, kindInt},
	{keyDetectStarters, kindSlice},
	{keyDetectVerbs, kindSlice},
	{keyDetectGlyphs, kindString},
}

func kindOf(key string) (settingKind, bool) {
	for _, entry := range settingsSchema {
		if entry.key == key {
			return entry.kind, true
		}
	}
	return kindString, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Processing: domain.ProcessingSettings{
			MaxChunkChars: s.getInt(keyMaxChunkChars, defaults.Processing.MaxChunkChars),
			TopK:          s.getInt(keyTopK, defaults.Processing.TopK),
			MaxEmbedChars: s.getInt(keyMaxEmbedChars, defaults.Processing.MaxEmbedChars),
			ThrottleRPS:   s.getFloat(keyThrottleRPS, defaults.Processing.ThrottleRPS),
		},
		Detection: domain.DetectionSettings{
			MinLength:       s.getInt(keyDetectMinLen, defaults.Detection.MinLength),
			StarterWords:    s.getStringSlice(keyDetectStarters, defaults.Detection.StarterWords),
			ImperativeVerbs: s.getStringSlice(keyDetectVerbs, defaults.Detection.ImperativeVerbs),
			BulletGlyphs:    s.getString(keyDetectGlyphs, defaults.Detection.BulletGlyphs),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save processing settings
	if err := s.configStore.Set(keyMaxChunkChars, settings.Processing.MaxChunkChars); err != nil {
		return fmt.Errorf("save max_chunk_chars: %w", err)
	}
	if err := s.configStore.Set(keyTopK, settings.Processing.TopK); err != nil {
		return fmt.Errorf("save top_k: %w", err)
	}
	if err := s.configStore.Set(keyMaxEmbedChars, settings.Processing.MaxEmbedChars); err != nil {
		return fmt.Errorf("save max_embed_chars: %w", err)
	}
	if err := s.configStore.Set(keyThrottleRPS, settings.Processing.ThrottleRPS); err != nil {
		return fmt.Errorf("save throttle_rps: %w", err)
	}

	// Save detection settings
	if err := s.configStore.Set(keyDetectMinLen, settings.Detection.MinLength); err != nil {
		return fmt.Errorf("save detection min_length: %w", err)
	}
	if err := s.configStore.Set(keyDetectStarters, settings.Detection.StarterWords); err != nil {
		return fmt.Errorf("save detection starter_words: %w", err)
	}
	if err := s.configStore.Set(keyDetectVerbs, settings.Detection.ImperativeVerbs); err != nil {
		return fmt.Errorf("save detection imperative_verbs: %w", err)
	}
	if err := s.configStore.Set(keyDetectGlyphs, settings.Detection.BulletGlyphs); err != nil {
		return fmt.Errorf("save detection bullet_glyphs: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetTopK updates how many knowledge matches are retrieved per question.
func (s *SettingsService) SetTopK(topK int) error {
	if topK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", topK)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Processing.TopK = topK

	return s.Save(settings)
}

// SetMaxChunkChars updates the chunk size ceiling used at ingest time.
// Changing this affects newly ingested entries only.
func (s *SettingsService) SetMaxChunkChars(maxChars int) error {
	if maxChars <= 0 {
		return fmt.Errorf("max_chunk_chars must be positive, got %d", maxChars)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Processing.MaxChunkChars = maxChars

	return s.Save(settings)
}

// Keys returns the settings keys exposed to CRUD, in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsSchema))
	for i, entry := range settingsSchema {
		keys[i] = entry.key
	}
	return keys
}

// GetValue returns the stored value for a settings key. The boolean is
// false when the key has never been set and its default applies.
func (s *SettingsService) GetValue(key string) (any, bool, error) {
	if _, known := kindOf(key); !known {
		return nil, false, fmt.Errorf("%w: unknown settings key %q", domain.ErrInvalidInput, key)
	}

	val, ok := s.configStore.Get(key)
	return val, ok, nil
}

// SetValue parses a raw value according to the key's type and persists
// it. Slice keys take comma-separated values.
func (s *SettingsService) SetValue(key, raw string) error {
	kind, known := kindOf(key)
	if !known {
		return fmt.Errorf("%w: unknown settings key %q", domain.ErrInvalidInput, key)
	}

	var value any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s requires an integer", domain.ErrInvalidInput, key)
		}
		value = n
	case kindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%w: %s requires a number", domain.ErrInvalidInput, key)
		}
		value = f
	case kindSlice:
		value = splitCSV(raw)
	case kindProvider:
		if !domain.AIProvider(raw).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, raw)
		}
		value = raw
	default:
		value = raw
	}

	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	return nil
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate checks if current settings are complete.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured (run 'responda settings embedding')")
	}

	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("llm provider is not configured (run 'responda settings llm')")
	}

	if settings.Processing.TopK < 0 {
		return fmt.Errorf("processing.top_k must not be negative")
	}
	if settings.Processing.MaxChunkChars < 0 {
		return fmt.Errorf("processing.max_chunk_chars must not be negative")
	}
	if settings.Processing.ThrottleRPS < 0 {
		return fmt.Errorf("processing.throttle_rps must not be negative")
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
	return s.configStore.GetFloat64(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
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

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	// Try to load processors list from config
	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		defaults.Processors = processors
	}

	// Load per-processor configs
	// For each known processor, check if config exists
	for _, name := range defaults.Processors {
		prefix := "pipeline." + name + "."
		cfg := s.loadProcessorConfig(prefix)
		if len(cfg) > 0 {
			if defaults.ProcessorConfigs == nil {
				defaults.ProcessorConfigs = make(map[string]map[string]any)
			}
			// Merge with existing defaults
			existing := defaults.ProcessorConfigs[name]
			if existing == nil {
				existing = make(map[string]any)
			}
			for k, v := range cfg {
				existing[k] = v
			}
			defaults.ProcessorConfigs[name] = existing
		}
	}

	// The chunker follows the processing section unless explicitly
	// overridden under pipeline.chunker.
	if _, explicit := s.configStore.Get("pipeline.chunker.max_chars"); !explicit {
		if maxChars := s.configStore.GetInt(keyMaxChunkChars); maxChars > 0 {
			if defaults.ProcessorConfigs == nil {
				defaults.ProcessorConfigs = make(map[string]map[string]any)
			}
			cfg := defaults.ProcessorConfigs["chunker"]
			if cfg == nil {
				cfg = make(map[string]any)
			}
			cfg["max_chars"] = maxChars
			defaults.ProcessorConfigs["chunker"] = cfg
		}
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)

	// Check common processor config keys
	knownKeys := []string{"max_chars", "model"}
	for _, key := range knownKeys {
		fullKey := prefix + key
		if val, exists := s.configStore.Get(fullKey); exists {
			cfg[key] = val
		}
	}

	return cfg
}
