package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

// RateLimitEmbedding wraps an embedding service with a token bucket that
// caps outbound requests at rps per second. Each Embed or EmbedBatch call
// counts as one request. A non-positive rps returns the service unwrapped.
func RateLimitEmbedding(svc driven.EmbeddingService, rps float64) driven.EmbeddingService {
	if svc == nil || rps <= 0 {
		return svc
	}
	return &rateLimitedEmbedding{
		EmbeddingService: svc,
		bucket:           rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// RateLimitLLM wraps an LLM service with a token bucket that caps outbound
// requests at rps per second. A non-positive rps returns the service
// unwrapped.
func RateLimitLLM(svc driven.LLMService, rps float64) driven.LLMService {
	if svc == nil || rps <= 0 {
		return svc
	}
	return &rateLimitedLLM{
		LLMService: svc,
		bucket:     rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type rateLimitedEmbedding struct {
	driven.EmbeddingService
	bucket *rate.Limiter
}

func (s *rateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return s.EmbeddingService.Embed(ctx, text)
}

func (s *rateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return s.EmbeddingService.EmbedBatch(ctx, texts)
}

type rateLimitedLLM struct {
	driven.LLMService
	bucket *rate.Limiter
}

func (s *rateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.LLMService.Generate(ctx, prompt, opts)
}
