package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
	"github.com/custodia-labs/responda-cli/internal/logger"
)

// DefaultMaxEmbedChars caps the text length sent for whole-document
// embedding. Longer documents are truncated to this prefix.
const DefaultMaxEmbedChars = 8000

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// KnowledgeService owns the knowledge base: it ingests source documents
// into entries with embedded chunks and manages the stored set. Ingest and
// delete are serialized through a single writer lock; reads go straight to
// the store, whose implementations snapshot at call start.
type KnowledgeService struct {
	store         driven.KnowledgeStore
	embedder      driven.EmbeddingService
	extractors    driven.ExtractorRegistry
	pipeline      driven.PostProcessorPipeline
	maxEmbedChars int

	mu sync.Mutex // serializes ingest and delete
}

// NewKnowledgeService creates a new knowledge service.
// A maxEmbedChars of zero or less falls back to DefaultMaxEmbedChars.
func NewKnowledgeService(
	store driven.KnowledgeStore,
	embedder driven.EmbeddingService,
	extractors driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	maxEmbedChars int,
) *KnowledgeService {
	if maxEmbedChars <= 0 {
		maxEmbedChars = DefaultMaxEmbedChars
	}
	return &KnowledgeService{
		store:         store,
		embedder:      embedder,
		extractors:    extractors,
		pipeline:      pipeline,
		maxEmbedChars: maxEmbedChars,
	}
}

// Ingest extracts text from an uploaded file and ingests it.
func (s *KnowledgeService) Ingest(ctx context.Context, upload *domain.RawUpload, progress domain.ProgressFunc) (*domain.KnowledgeEntry, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrInvalidInput)
	}

	extractor, err := s.extractors.ForUpload(upload)
	if err != nil {
		return nil, err
	}

	progress.Report(domain.ProgressEvent{
		Stage:   domain.StageExtract,
		Message: fmt.Sprintf("Extracting text from %s", upload.FileName),
	})

	result, err := extractor.Extract(ctx, upload)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", upload.FileName, err)
	}

	return s.IngestText(ctx, upload.FileName, result.Text, progress)
}

// IngestText ingests already-extracted plain text under the given file
// name: it embeds the whole document, chunks it, embeds every chunk with
// one sequential call each, and persists the finished entry. Any embedding
// failure abandons the ingest; a partially embedded entry is never saved.
func (s *KnowledgeService) IngestText(ctx context.Context, fileName, text string, progress domain.ProgressFunc) (*domain.KnowledgeEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty document text", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Section("Knowledge Ingestion")
	logger.Debug("File: %s (%d bytes)", fileName, len(text))

	entry := &domain.KnowledgeEntry{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Content:   text,
		CreatedAt: time.Now(),
		ByteSize:  len(text),
	}

	// Whole-document embedding works on a bounded prefix so oversized
	// documents stay within the provider's input window.
	docText := text
	if len(docText) > s.maxEmbedChars {
		docText = docText[:s.maxEmbedChars]
	}

	docEmbedding, err := s.embedder.Embed(ctx, docText)
	if err != nil {
		return nil, fmt.Errorf("embed document: %w", err)
	}
	entry.Embedding = docEmbedding

	progress.Report(domain.ProgressEvent{
		Stage:   domain.StageChunk,
		Message: "Chunking document",
	})

	chunks, err := s.pipeline.Process(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("chunk document: %w", err)
	}

	logger.Debug("Chunked %s into %d chunks", fileName, len(chunks))

	for i := range chunks {
		progress.Report(domain.ProgressEvent{
			Stage:   domain.StageEmbed,
			Current: i + 1,
			Total:   len(chunks),
			Message: fmt.Sprintf("Embedding chunk %d of %d", i+1, len(chunks)),
		})
		logger.Step(i+1, len(chunks), "embedding chunk %s", chunks[i].ID)

		embedding, err := s.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d of %d: %w", i+1, len(chunks), err)
		}
		chunks[i].Embedding = embedding
	}
	entry.Chunks = chunks

	if err := s.store.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	logger.Info("Ingested %s: %d chunks", fileName, len(chunks))

	return entry, nil
}

// List returns all stored entries ordered by creation time.
func (s *KnowledgeService) List(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	return s.store.ListEntries(ctx)
}

// Get returns a single entry by id.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	return s.store.GetEntry(ctx, id)
}

// Delete removes an entry and its chunks. Unknown ids are a no-op.
func (s *KnowledgeService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("Deleting entry %s", id)
	return s.store.DeleteEntry(ctx, id)
}
