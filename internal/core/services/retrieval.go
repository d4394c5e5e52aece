package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
	"github.com/custodia-labs/responda-cli/internal/logger"
)

// DefaultTopK is the default number of matches returned per query.
const DefaultTopK = 5

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks stored knowledge chunks against query embeddings.
type RetrievalService struct {
	store            driven.KnowledgeStore
	embeddingService driven.EmbeddingService
	topK             int
}

// NewRetrievalService creates a new retrieval service.
// A topK of zero or less falls back to DefaultTopK.
func NewRetrievalService(
	store driven.KnowledgeStore,
	embeddingService driven.EmbeddingService,
	topK int,
) *RetrievalService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RetrievalService{
		store:            store,
		embeddingService: embeddingService,
		topK:             topK,
	}
}

// Search embeds the query text and returns the top-k matches by cosine
// similarity, best first.
func (s *RetrievalService) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievedMatch{}, nil
	}
	if s.embeddingService == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Debug("Search: embedding query %q", query)
	embedding, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return s.Retrieve(ctx, embedding, topK)
}

// Retrieve ranks every stored chunk against the query embedding and returns
// the topK best matches, sorted descending by score. Ties keep store order,
// so results are deterministic. A topK of zero or less falls back to the
// service default. An empty store yields an empty result, never an error.
func (s *RetrievalService) Retrieve(ctx context.Context, queryEmbedding []float32, topK int) ([]domain.RetrievedMatch, error) {
	if topK <= 0 {
		topK = s.topK
	}

	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	logger.Debug("Retrieve: scoring %d chunks, topK=%d", len(chunks), topK)

	if len(chunks) == 0 {
		return []domain.RetrievedMatch{}, nil
	}

	matches := make([]domain.RetrievedMatch, 0, len(chunks))
	for _, sc := range chunks {
		score, err := Cosine(queryEmbedding, sc.Chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", sc.Chunk.ID, err)
		}
		matches = append(matches, domain.RetrievedMatch{
			ChunkID:    sc.Chunk.ID,
			Content:    sc.Chunk.Content,
			Score:      score,
			SourceFile: sc.SourceFile,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	return matches, nil
}

// Cosine computes the cosine similarity of two embeddings.
// Returns a value between -1 and 1, where 1 means identical direction.
// The score is 0, not an error, when either vector has zero magnitude.
// Vectors of different lengths fail with domain.ErrDimensionMismatch.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0, nil
	}

	return dot / denominator, nil
}
