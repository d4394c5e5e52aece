// Package ollama provides an EmbeddingService implementation backed by a
// local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the standard Ollama server address.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the embedding model used when none is configured.
	DefaultModel = "nomic-embed-text"

	// DefaultTimeout for embedding requests.
	DefaultTimeout = 30 * time.Second

	// DefaultDimensions for nomic-embed-text.
	DefaultDimensions = 768
)

// Config holds the settings for the Ollama embedding client.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// EmbeddingService talks to an Ollama server over HTTP.
type EmbeddingService struct {
	config Config
	client *http.Client
}

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// NewEmbeddingService creates an Ollama embedding service. Zero-value config
// fields fall back to the defaults above.
func NewEmbeddingService(config Config) *EmbeddingService {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Dimensions == 0 {
		config.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed generates an embedding vector for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := embedRequest{
		Model:  s.config.Model,
		Prompt: text,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := s.config.BaseURL + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama request failed: %v", domain.ErrEmbeddingUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: ollama returned status %d: %s", domain.ErrEmbeddingUnavailable, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbeddingUnavailable, err)
	}

	// Ollama returns float64, the vector store works in float32.
	vector := make([]float32, len(embedResp.Embedding))
	for i, v := range embedResp.Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

// EmbedBatch generates embeddings for multiple texts. Texts are embedded
// sequentially so callers can rely on index-aligned results.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions returns the configured vector dimensionality.
func (s *EmbeddingService) Dimensions() int {
	return s.config.Dimensions
}

// ModelName returns the configured model identifier.
func (s *EmbeddingService) ModelName() string {
	return s.config.Model
}

// Ping checks that the Ollama server is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama server unreachable at %s: %w", s.config.BaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama server returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the client.
func (s *EmbeddingService) Close() error {
	return nil
}
