package driven

import (
	"io"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// ResponseWriter renders an assembled response document into an output
// format. The document model is abstract; writers own all formatting.
type ResponseWriter interface {
	// Write renders the document to w.
	Write(w io.Writer, doc *domain.ResponseDocument) error

	// Extension returns the file extension the writer produces,
	// including the leading dot (e.g., ".md").
	Extension() string
}
