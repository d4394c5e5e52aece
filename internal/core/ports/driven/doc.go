// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Pulls plain text out of an uploaded file
//   - ExtractorRegistry: Selects the extractor for a file type
//   - KnowledgeStore: Knowledge entry persistence
//   - ConfigStore: Application configuration
//   - PostProcessorPipeline: Splits entry content into chunks
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Ingestion and retrieval
//     are disabled without it.
//   - LLMService: Text completion. Without it, answering degrades to
//     failure notices and the canned summary.
//   - PromptStore: Custom prompt templates. Without it, embedded defaults
//     are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
