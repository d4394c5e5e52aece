package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
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

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
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

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
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

// ProcessingSettings holds knobs for the ingestion and answering pipelines.
// Zero values mean "use the component default".
type ProcessingSettings struct {
	// MaxChunkChars is the soft chunk size limit in characters.
	MaxChunkChars int

	// TopK is the number of matches retrieved per question.
	TopK int

	// MaxEmbedChars caps the text length sent for whole-document
	// embedding; longer documents are truncated to this prefix.
	MaxEmbedChars int

	// ThrottleRPS limits AI provider requests per second.
	// Zero disables throttling.
	ThrottleRPS float64
}

// DetectionSettings holds the question detection rule configuration.
// The rule set is a tuned starting heuristic; every knob here exists so
// detection can be adjusted without touching the classifier.
type DetectionSettings struct {
	// MinLength is the minimum candidate length in characters.
	// Shorter candidates are never classified as questions.
	MinLength int

	// StarterWords are first words that mark a sentence as a question,
	// matched case-insensitively.
	StarterWords []string

	// ImperativeVerbs are verbs that, following "please" or "kindly",
	// mark an imperative request as a question.
	ImperativeVerbs []string

	// BulletGlyphs are single characters treated as list-bullet
	// artifacts of PDF extraction and dropped during normalisation.
	BulletGlyphs string
}

// DefaultDetectionSettings returns the stock detection rule set.
func DefaultDetectionSettings() DetectionSettings {
	return DetectionSettings{
		MinLength: 10,
		StarterWords: []string{
			"what", "how", "why", "when", "where", "who", "which",
			"can", "could", "would", "will", "do", "does", "is", "are",
			"describe", "explain", "provide",
		},
		ImperativeVerbs: []string{
			"describe", "explain", "provide", "list", "detail", "outline",
		},
		BulletGlyphs: "•◦▪‣·∙-–—*>",
	}
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Processing holds pipeline settings.
	Processing ProcessingSettings

	// Detection holds question detection settings.
	Detection DetectionSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers (Embedding, LLM) are left unconfigured by default.
// Users must explicitly configure them via `responda settings`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Embedding is left unconfigured - user must set a provider
		Embedding: EmbeddingSettings{},
		// LLM is left unconfigured - user must set a provider
		LLM: LLMSettings{},
		Processing: ProcessingSettings{
			MaxChunkChars: 250,
			TopK:          5,
			MaxEmbedChars: 8000,
		},
		Detection: DefaultDetectionSettings(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
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

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be
// added without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
// Works out-of-the-box with the sentence chunker at its stock size.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"max_chars": 250,
			},
		},
	}
}
