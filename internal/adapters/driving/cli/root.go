// Package cli implements the responda command line interface.
// It is a driving adapter: commands translate flags and arguments into
// calls on the core services and render the results.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/responda-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/responda-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/responda-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
	"github.com/custodia-labs/responda-cli/internal/core/services"
	"github.com/custodia-labs/responda-cli/internal/extractors"
	"github.com/custodia-labs/responda-cli/internal/extractors/docx"
	"github.com/custodia-labs/responda-cli/internal/extractors/pdf"
	"github.com/custodia-labs/responda-cli/internal/extractors/plaintext"
	"github.com/custodia-labs/responda-cli/internal/logger"
	"github.com/custodia-labs/responda-cli/internal/postprocessors"
)

// version is the build version, overridden at release time via ldflags.
var version = "dev"

// Services used by the commands. Populated by Execute via initServices;
// commands nil-check the ones they need so a partially wired binary
// fails with a clear message instead of a panic.
var (
	knowledgeService  driving.KnowledgeService
	answerService     driving.AnswerService
	retrievalService  driving.RetrievalService
	detectionService  driving.DetectionService
	settingsService   driving.SettingsService
	actionService     driving.AnswerActionService
	extractorRegistry driven.ExtractorRegistry
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "responda",
	Short: "Draft RFP and questionnaire responses from your own documents",
	Long: `Responda answers requests for proposals from a local knowledge base.

Ingest your company's reference documents once, then hand responda an
incoming RFP or security questionnaire: it detects the questions, retrieves
the most relevant passages, and drafts a grounded answer for each one.

Everything runs against providers you configure (a local Ollama instance
or a cloud API) and all data stays in ~/.responda.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
}

// Execute wires the application services and runs the root command.
// It is the entry point used by main.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

// initServices builds the full service graph from the user's stored
// configuration. AI providers that are unconfigured or unreachable leave
// their services nil; commands that depend on them surface the
// corresponding unavailability error at call time, so commands like
// list and settings keep working without a provider.
func initServices() error {
	// API keys may live in a .env next to the working directory.
	_ = godotenv.Load()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settingsService = settingsSvc

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open knowledge store: %w", err)
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	embedder = ai.RateLimitEmbedding(embedder, settings.Processing.ThrottleRPS)

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	llm = ai.RateLimitLLM(llm, settings.Processing.ThrottleRPS)

	registry := extractors.NewRegistry(plaintext.New(), pdf.New(), docx.New())
	extractorRegistry = registry

	pipeline, err := buildPipeline(settingsSvc.GetPipelineConfig())
	if err != nil {
		return err
	}

	knowledgeService = services.NewKnowledgeService(
		store, embedder, registry, pipeline, settings.Processing.MaxEmbedChars,
	)

	detectionSvc := services.NewDetectionService(settings.Detection)
	detectionService = detectionSvc

	retrievalSvc := services.NewRetrievalService(store, embedder, settings.Processing.TopK)
	retrievalService = retrievalSvc

	answerSvc := services.NewAnswerService(
		detectionSvc, retrievalSvc, embedder, llm, registry, settings.Processing.TopK,
	)
	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompt store: %w", err)
	}
	answerSvc.SetPromptStore(promptStore)
	answerService = answerSvc

	actionService = services.NewAnswerActionService()

	return nil
}

// buildPipeline constructs the post-processor chain named by the pipeline
// configuration.
func buildPipeline(cfg domain.PipelineConfig) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	processors := make([]driven.PostProcessor, 0, len(cfg.Processors))
	for _, name := range cfg.Processors {
		p, err := registry.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("configure pipeline: %w", err)
		}
		processors = append(processors, p)
	}

	return postprocessors.NewPipeline(processors...), nil
}
