package driven

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// KnowledgeStore persists knowledge entries and their chunks.
// Implementations must save an entry and its chunks atomically: a
// partially written entry must never become visible to readers.
type KnowledgeStore interface {
	// SaveEntry stores an entry together with all its chunks.
	SaveEntry(ctx context.Context, entry *domain.KnowledgeEntry) error

	// GetEntry retrieves an entry by ID, chunks included.
	// Returns domain.ErrNotFound for unknown IDs.
	GetEntry(ctx context.Context, id string) (*domain.KnowledgeEntry, error)

	// ListEntries returns all entries ordered by creation time.
	// Chunk embeddings are included; callers needing only metadata
	// should ignore them.
	ListEntries(ctx context.Context) ([]domain.KnowledgeEntry, error)

	// DeleteEntry removes an entry and its chunks.
	// Deleting an unknown ID is a no-op, not an error.
	DeleteEntry(ctx context.Context, id string) error

	// AllChunks returns every chunk across all entries paired with its
	// source file name, in entry order then chunk position order.
	AllChunks(ctx context.Context) ([]domain.SourcedChunk, error)

	// Close releases resources.
	Close() error
}
