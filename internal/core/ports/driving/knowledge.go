package driving

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// KnowledgeService manages the knowledge base contents for external actors.
// This is used by CLI, TUI, and MCP adapters.
type KnowledgeService interface {
	// Ingest extracts text from an uploaded file, chunks and embeds it,
	// and persists the resulting entry. The upload's file name is kept as
	// the entry's source name. Returns domain.ErrUnsupportedFileType when
	// no extractor handles the upload's extension.
	Ingest(ctx context.Context, upload *domain.RawUpload, progress domain.ProgressFunc) (*domain.KnowledgeEntry, error)

	// IngestText ingests already-extracted plain text under the given
	// file name. Returns domain.ErrInvalidInput when the text is empty.
	IngestText(ctx context.Context, fileName, text string, progress domain.ProgressFunc) (*domain.KnowledgeEntry, error)

	// List returns all stored entries ordered by creation time.
	List(ctx context.Context) ([]domain.KnowledgeEntry, error)

	// Get returns a single entry by id. Returns domain.ErrNotFound when
	// no entry has that id.
	Get(ctx context.Context, id string) (*domain.KnowledgeEntry, error)

	// Delete removes an entry and its chunks. Deleting an unknown id is
	// a no-op.
	Delete(ctx context.Context, id string) error
}
