package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/responda-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/postprocessors"
	"github.com/custodia-labs/responda-cli/internal/postprocessors/chunker"
)

// knowledgeMockEmbedder counts calls, captures texts, and can fail on a
// specific call (1-based) to exercise mid-ingest failures.
type knowledgeMockEmbedder struct {
	embedding  []float32
	err        error
	failOnCall int
	calls      int
	texts      []string
}

func (e *knowledgeMockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	e.texts = append(e.texts, text)
	if e.err != nil {
		return nil, e.err
	}
	if e.failOnCall > 0 && e.calls == e.failOnCall {
		return nil, errors.New("embedding backend down")
	}
	if e.embedding != nil {
		return e.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (e *knowledgeMockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		emb, err := e.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		result[i] = emb
	}
	return result, nil
}

func (e *knowledgeMockEmbedder) Dimensions() int              { return len(e.embedding) }
func (e *knowledgeMockEmbedder) ModelName() string            { return "mock" }
func (e *knowledgeMockEmbedder) Ping(_ context.Context) error { return nil }
func (e *knowledgeMockEmbedder) Close() error                 { return nil }

// knowledgeMockExtractor returns fixed text for any upload.
type knowledgeMockExtractor struct {
	text string
	err  error
}

func (e *knowledgeMockExtractor) SupportedExtensions() []string { return []string{".txt"} }

func (e *knowledgeMockExtractor) Extract(_ context.Context, _ *domain.RawUpload) (*driven.ExtractResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return &driven.ExtractResult{Text: e.text}, nil
}

// knowledgeMockRegistry hands out a single extractor, or an error when
// none is configured.
type knowledgeMockRegistry struct {
	extractor driven.Extractor
}

func (r *knowledgeMockRegistry) ForUpload(upload *domain.RawUpload) (driven.Extractor, error) {
	if r.extractor == nil {
		return nil, domain.ErrUnsupportedFileType
	}
	return r.extractor, nil
}

func (r *knowledgeMockRegistry) SupportedExtensions() []string { return []string{".txt"} }

// knowledgeMockFailingStore fails every save.
type knowledgeMockFailingStore struct {
	saveErr error
}

func (s *knowledgeMockFailingStore) SaveEntry(_ context.Context, _ *domain.KnowledgeEntry) error {
	return s.saveErr
}

func (s *knowledgeMockFailingStore) GetEntry(_ context.Context, _ string) (*domain.KnowledgeEntry, error) {
	return nil, domain.ErrNotFound
}

func (s *knowledgeMockFailingStore) ListEntries(_ context.Context) ([]domain.KnowledgeEntry, error) {
	return nil, nil
}

func (s *knowledgeMockFailingStore) DeleteEntry(_ context.Context, _ string) error { return nil }

func (s *knowledgeMockFailingStore) AllChunks(_ context.Context) ([]domain.SourcedChunk, error) {
	return nil, nil
}

func (s *knowledgeMockFailingStore) Close() error { return nil }

// newTestPipeline builds the real chunking pipeline with a small limit so
// short test fixtures still produce multiple chunks.
func newTestPipeline(maxChars int) *postprocessors.Pipeline {
	return postprocessors.NewPipeline(chunker.New(chunker.WithMaxChars(maxChars)))
}

// --- Tests ---

func TestNewKnowledgeService_Defaults(t *testing.T) {
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), nil, nil, nil, 0)

	require.NotNil(t, svc)
	assert.Equal(t, DefaultMaxEmbedChars, svc.maxEmbedChars)
}

func TestKnowledgeService_IngestText_Success(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)
	ctx := context.Background()

	text := "The quick brown fox jumps. A lazy dog sleeps. Something else happens."
	entry, err := svc.IngestText(ctx, "facts.txt", text, nil)

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "facts.txt", entry.FileName)
	assert.Equal(t, text, entry.Content)
	assert.Equal(t, []float32{1, 0}, entry.Embedding)
	assert.Equal(t, len(text), entry.ByteSize)
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)

	// Three short sentences fit in one chunk at the default limit.
	require.Len(t, entry.Chunks, 1)
	assert.Equal(t, []float32{1, 0}, entry.Chunks[0].Embedding)

	entries, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
}

func TestKnowledgeService_IngestText_ThenRetrieve(t *testing.T) {
	// Ingesting with a fixed [1,0] embedder must make the entry's chunk
	// retrievable at similarity 1.0 for any query.
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)
	ctx := context.Background()

	_, err := svc.IngestText(ctx, "facts.txt",
		"The quick brown fox jumps. A lazy dog sleeps. Something else happens.", nil)
	require.NoError(t, err)

	retrieval := NewRetrievalService(store, embedder, 5)
	matches, err := retrieval.Search(ctx, "what does the fox do", 5)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "facts.txt", matches[0].SourceFile)
}

func TestKnowledgeService_IngestText_EmptyText(t *testing.T) {
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), &knowledgeMockEmbedder{}, nil, newTestPipeline(0), 0)

	_, err := svc.IngestText(context.Background(), "empty.txt", "   \n\t ", nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeService_IngestText_NilEmbedder(t *testing.T) {
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), nil, nil, newTestPipeline(0), 0)

	_, err := svc.IngestText(context.Background(), "doc.txt", "Some text.", nil)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestKnowledgeService_IngestText_ChunkEmbedFailureSavesNothing(t *testing.T) {
	store := memory.NewKnowledgeStore()
	// Call 1 embeds the document, calls 2..3 embed the chunks; failing
	// call 3 means the second chunk embed fails mid-ingest.
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}, failOnCall: 3}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(25), 0)
	ctx := context.Background()

	_, err := svc.IngestText(ctx, "doc.txt", "Aaaaa bbbb. Ccccc dddd. Eeeee ffff.", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed chunk 2 of 2")

	// All-or-nothing: the aborted ingest must leave no trace.
	entries, listErr := store.ListEntries(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, entries)

	chunks, chunksErr := store.AllChunks(ctx)
	require.NoError(t, chunksErr)
	assert.Empty(t, chunks)
}

func TestKnowledgeService_IngestText_DocEmbedFailure(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}, failOnCall: 1}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)

	_, err := svc.IngestText(context.Background(), "doc.txt", "Some document text.", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed document")

	entries, listErr := store.ListEntries(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, entries)
}

func TestKnowledgeService_IngestText_TruncatesDocumentEmbedText(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 50)
	ctx := context.Background()

	text := "Alpha beta gamma delta. Epsilon zeta eta theta. Iota kappa lambda mu."
	entry, err := svc.IngestText(ctx, "long.txt", text, nil)

	require.NoError(t, err)
	require.NotEmpty(t, embedder.texts)

	// The whole-document call sees only the capped prefix; the stored
	// entry and the chunk embeds keep the full text.
	assert.Equal(t, text[:50], embedder.texts[0])
	assert.Equal(t, text, entry.Content)
	require.Len(t, entry.Chunks, 1)
	assert.Equal(t, text, embedder.texts[1])
}

func TestKnowledgeService_IngestText_ProgressEvents(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(25), 0)

	var events []domain.ProgressEvent
	progress := func(e domain.ProgressEvent) { events = append(events, e) }

	_, err := svc.IngestText(context.Background(), "doc.txt", "Aaaaa bbbb. Ccccc dddd. Eeeee ffff.", progress)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.StageChunk, events[0].Stage)
	assert.Equal(t, domain.StageEmbed, events[1].Stage)
	assert.Equal(t, 1, events[1].Current)
	assert.Equal(t, 2, events[1].Total)
	assert.Equal(t, domain.StageEmbed, events[2].Stage)
	assert.Equal(t, 2, events[2].Current)
}

func TestKnowledgeService_IngestText_SaveError(t *testing.T) {
	store := &knowledgeMockFailingStore{saveErr: errors.New("disk full")}
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)

	_, err := svc.IngestText(context.Background(), "doc.txt", "Some document text.", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "save entry")
}

func TestKnowledgeService_Ingest_EmptyUpload(t *testing.T) {
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), &knowledgeMockEmbedder{}, &knowledgeMockRegistry{}, newTestPipeline(0), 0)

	_, err := svc.Ingest(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), &domain.RawUpload{FileName: "x.txt"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeService_Ingest_UnsupportedFileType(t *testing.T) {
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), &knowledgeMockEmbedder{}, &knowledgeMockRegistry{}, newTestPipeline(0), 0)

	upload := &domain.RawUpload{FileName: "diagram.xyz", Data: []byte{1, 2, 3}}
	_, err := svc.Ingest(context.Background(), upload, nil)

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestKnowledgeService_Ingest_ExtractsThenIngests(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	registry := &knowledgeMockRegistry{
		extractor: &knowledgeMockExtractor{text: "Managed backup services. Daily restore testing."},
	}
	svc := NewKnowledgeService(store, embedder, registry, newTestPipeline(0), 0)

	var events []domain.ProgressEvent
	progress := func(e domain.ProgressEvent) { events = append(events, e) }

	upload := &domain.RawUpload{FileName: "services.txt", Data: []byte("raw bytes")}
	entry, err := svc.Ingest(context.Background(), upload, progress)

	require.NoError(t, err)
	assert.Equal(t, "services.txt", entry.FileName)
	assert.Equal(t, "Managed backup services. Daily restore testing.", entry.Content)
	require.NotEmpty(t, events)
	assert.Equal(t, domain.StageExtract, events[0].Stage)
}

func TestKnowledgeService_Ingest_ExtractError(t *testing.T) {
	registry := &knowledgeMockRegistry{
		extractor: &knowledgeMockExtractor{err: errors.New("corrupt file")},
	}
	svc := NewKnowledgeService(memory.NewKnowledgeStore(), &knowledgeMockEmbedder{}, registry, newTestPipeline(0), 0)

	upload := &domain.RawUpload{FileName: "broken.txt", Data: []byte("raw")}
	_, err := svc.Ingest(context.Background(), upload, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract broken.txt")
}

func TestKnowledgeService_Delete_Idempotent(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)
	ctx := context.Background()

	// Deleting an unknown ID succeeds quietly.
	assert.NoError(t, svc.Delete(ctx, "no-such-entry"))

	entry, err := svc.IngestText(ctx, "doc.txt", "Some document text.", nil)
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(ctx, entry.ID))
	assert.NoError(t, svc.Delete(ctx, entry.ID))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKnowledgeService_Get(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &knowledgeMockEmbedder{embedding: []float32{1, 0}}
	svc := NewKnowledgeService(store, embedder, nil, newTestPipeline(0), 0)
	ctx := context.Background()

	entry, err := svc.IngestText(ctx, "doc.txt", "Some document text.", nil)
	require.NoError(t, err)

	got, err := svc.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
