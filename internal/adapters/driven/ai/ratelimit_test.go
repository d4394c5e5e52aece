package ai

import (
	"context"
	"testing"

	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

// --- Fakes ---

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{0.1}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	return make([][]float32, len(texts)), nil
}

func (f *fakeEmbedder) Dimensions() int              { return 1 }
func (f *fakeEmbedder) ModelName() string            { return "fake" }
func (f *fakeEmbedder) Ping(ctx context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

type fakeLLM struct {
	calls int
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.calls++
	return "generated", nil
}

func (f *fakeLLM) ModelName() string            { return "fake" }
func (f *fakeLLM) Ping(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// --- Tests ---

func TestRateLimitEmbedding_NilService(t *testing.T) {
	if got := RateLimitEmbedding(nil, 2.0); got != nil {
		t.Error("expected nil for nil service")
	}
}

func TestRateLimitEmbedding_DisabledReturnsUnwrapped(t *testing.T) {
	svc := &fakeEmbedder{}

	if got := RateLimitEmbedding(svc, 0); got != driven.EmbeddingService(svc) {
		t.Error("rps 0 should return the service unwrapped")
	}
	if got := RateLimitEmbedding(svc, -1.5); got != driven.EmbeddingService(svc) {
		t.Error("negative rps should return the service unwrapped")
	}
}

func TestRateLimitEmbedding_Delegates(t *testing.T) {
	svc := &fakeEmbedder{}
	limited := RateLimitEmbedding(svc, 1000)

	if _, err := limited.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := limited.EmbedBatch(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.calls != 2 {
		t.Errorf("expected 2 delegated calls, got %d", svc.calls)
	}
	if limited.ModelName() != "fake" {
		t.Errorf("ModelName should delegate, got %q", limited.ModelName())
	}
	if limited.Dimensions() != 1 {
		t.Errorf("Dimensions should delegate, got %d", limited.Dimensions())
	}
}

func TestRateLimitEmbedding_CancelledContext(t *testing.T) {
	svc := &fakeEmbedder{}
	limited := RateLimitEmbedding(svc, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := limited.Embed(ctx, "hello"); err == nil {
		t.Error("expected error for cancelled context")
	}
	if svc.calls != 0 {
		t.Errorf("cancelled call should not reach the service, got %d calls", svc.calls)
	}
}

func TestRateLimitLLM_NilService(t *testing.T) {
	if got := RateLimitLLM(nil, 2.0); got != nil {
		t.Error("expected nil for nil service")
	}
}

func TestRateLimitLLM_DisabledReturnsUnwrapped(t *testing.T) {
	svc := &fakeLLM{}

	if got := RateLimitLLM(svc, 0); got != driven.LLMService(svc) {
		t.Error("rps 0 should return the service unwrapped")
	}
}

func TestRateLimitLLM_Delegates(t *testing.T) {
	svc := &fakeLLM{}
	limited := RateLimitLLM(svc, 1000)

	result, err := limited.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "generated" {
		t.Errorf("expected delegated result, got %q", result)
	}
	if svc.calls != 1 {
		t.Errorf("expected 1 delegated call, got %d", svc.calls)
	}
}

func TestRateLimitLLM_CancelledContext(t *testing.T) {
	svc := &fakeLLM{}
	limited := RateLimitLLM(svc, 0.001)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := limited.Generate(ctx, "prompt", driven.GenerateOptions{}); err == nil {
		t.Error("expected error for cancelled context")
	}
	if svc.calls != 0 {
		t.Errorf("cancelled call should not reach the service, got %d calls", svc.calls)
	}
}
