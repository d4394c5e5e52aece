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
)

// retrievalMockEmbedder returns a fixed embedding for every text.
type retrievalMockEmbedder struct {
	embedding []float32
	err       error
	calls     int
}

func (e *retrievalMockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.embedding != nil {
		return e.embedding, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (e *retrievalMockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func (e *retrievalMockEmbedder) Dimensions() int              { return len(e.embedding) }
func (e *retrievalMockEmbedder) ModelName() string            { return "mock" }
func (e *retrievalMockEmbedder) Ping(_ context.Context) error { return nil }
func (e *retrievalMockEmbedder) Close() error                 { return nil }

// seedChunks stores one entry holding the given chunk embeddings, in order.
func seedChunks(t *testing.T, store *memory.KnowledgeStore, embeddings ...[]float32) {
	t.Helper()
	entry := &domain.KnowledgeEntry{
		ID:        "entry-1",
		FileName:  "knowledge.txt",
		CreatedAt: time.Now(),
	}
	for i, emb := range embeddings {
		entry.Chunks = append(entry.Chunks, domain.Chunk{
			ID:        "chunk-" + string(rune('a'+i)),
			EntryID:   entry.ID,
			Content:   "Chunk " + string(rune('a'+i)),
			Position:  i,
			Embedding: emb,
		})
	}
	require.NoError(t, store.SaveEntry(context.Background(), entry))
}

// --- Cosine tests ---

func TestCosine_IdenticalVectors(t *testing.T) {
	v := []float32{0.3, -0.7, 0.64, 0.12}

	score, err := Cosine(v, v)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosine_OrthogonalVectors(t *testing.T) {
	score, err := Cosine([]float32{1, 0}, []float32{0, 1})

	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestCosine_OppositeVectors(t *testing.T) {
	score, err := Cosine([]float32{1, 0}, []float32{-1, 0})

	require.NoError(t, err)
	assert.InDelta(t, -1.0, score, 1e-9)
}

func TestCosine_ScaleInvariant(t *testing.T) {
	// Cosine measures direction, not magnitude.
	score, err := Cosine([]float32{10, 0}, []float32{0.5, 0})

	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestCosine_ZeroVectorScoresZero(t *testing.T) {
	// A zero-magnitude vector yields 0, not NaN and not an error.
	score, err := Cosine([]float32{0, 0}, []float32{1, 1})

	require.NoError(t, err)
	assert.Equal(t, 0.0, score)

	score, err = Cosine([]float32{0, 0}, []float32{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCosine_DimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 0}, []float32{1, 0, 0})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "2 vs 3")
}

// --- Retrieval tests ---

func TestNewRetrievalService_DefaultTopK(t *testing.T) {
	store := memory.NewKnowledgeStore()

	svc := NewRetrievalService(store, nil, 0)

	require.NotNil(t, svc)
	assert.Equal(t, DefaultTopK, svc.topK)
}

func TestRetrievalService_Retrieve_EmptyStore(t *testing.T) {
	store := memory.NewKnowledgeStore()
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRetrievalService_Retrieve_RanksByDescendingScore(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store,
		[]float32{0, 1},     // orthogonal: 0.0
		[]float32{1, 0},     // identical direction: 1.0
		[]float32{0.8, 0.2}, // close: ~0.97
	)
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "chunk-b", matches[0].ChunkID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "chunk-c", matches[1].ChunkID)
	assert.InDelta(t, 0.97014, matches[1].Score, 1e-4)
	assert.Equal(t, "chunk-a", matches[2].ChunkID)
	assert.InDelta(t, 0.0, matches[2].Score, 1e-9)
}

func TestRetrievalService_Retrieve_TruncatesToTopK(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store,
		[]float32{1, 0},
		[]float32{0.9, 0.1},
		[]float32{0.8, 0.2},
		[]float32{0.7, 0.3},
	)
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 2)

	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRetrievalService_Retrieve_FewerChunksThanTopK(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store, []float32{1, 0})
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 10)

	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRetrievalService_Retrieve_TiesKeepStoreOrder(t *testing.T) {
	store := memory.NewKnowledgeStore()
	// Three identical embeddings: every score ties at 1.0.
	seedChunks(t, store,
		[]float32{1, 0},
		[]float32{1, 0},
		[]float32{1, 0},
	)
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "chunk-a", matches[0].ChunkID)
	assert.Equal(t, "chunk-b", matches[1].ChunkID)
	assert.Equal(t, "chunk-c", matches[2].ChunkID)
}

func TestRetrievalService_Retrieve_ZeroTopKUsesDefault(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store,
		[]float32{1, 0}, []float32{1, 0}, []float32{1, 0},
		[]float32{1, 0}, []float32{1, 0}, []float32{1, 0},
	)
	svc := NewRetrievalService(store, nil, 4)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 0)

	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

func TestRetrievalService_Retrieve_DimensionMismatchAborts(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store, []float32{1, 0, 0})
	svc := NewRetrievalService(store, nil, 5)

	_, err := svc.Retrieve(context.Background(), []float32{1, 0}, 5)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestRetrievalService_Retrieve_CarriesSourceFile(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store, []float32{1, 0})
	svc := NewRetrievalService(store, nil, 5)

	matches, err := svc.Retrieve(context.Background(), []float32{1, 0}, 5)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "knowledge.txt", matches[0].SourceFile)
	assert.Equal(t, "Chunk a", matches[0].Content)
}

// --- Search tests ---

func TestRetrievalService_Search_EmptyQuery(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &retrievalMockEmbedder{embedding: []float32{1, 0}}
	svc := NewRetrievalService(store, embedder, 5)

	matches, err := svc.Search(context.Background(), "   \n\t  ", 5)

	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, embedder.calls)
}

func TestRetrievalService_Search_NilEmbedder(t *testing.T) {
	store := memory.NewKnowledgeStore()
	svc := NewRetrievalService(store, nil, 5)

	_, err := svc.Search(context.Background(), "uptime guarantees", 5)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetrievalService_Search_EmbedError(t *testing.T) {
	store := memory.NewKnowledgeStore()
	embedder := &retrievalMockEmbedder{err: errors.New("connection refused")}
	svc := NewRetrievalService(store, embedder, 5)

	_, err := svc.Search(context.Background(), "uptime guarantees", 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrievalService_Search_RoundTrip(t *testing.T) {
	store := memory.NewKnowledgeStore()
	seedChunks(t, store, []float32{1, 0}, []float32{0, 1})
	embedder := &retrievalMockEmbedder{embedding: []float32{1, 0}}
	svc := NewRetrievalService(store, embedder, 5)

	matches, err := svc.Search(context.Background(), "what is your uptime guarantee", 1)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "chunk-a", matches[0].ChunkID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, 1, embedder.calls)
}
