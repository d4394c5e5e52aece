package driving

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// RetrievalService ranks stored knowledge chunks against queries.
// This is used by CLI and MCP adapters.
type RetrievalService interface {
	// Search embeds the query text and returns the top-k matches by
	// cosine similarity, best first. Zero topK means the configured
	// default.
	Search(ctx context.Context, query string, topK int) ([]domain.RetrievedMatch, error)
}
