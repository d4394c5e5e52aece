package driven

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// Extractor pulls plain UTF-8 text out of an uploaded file.
// Each extractor handles specific file extensions (e.g., .pdf, .docx).
// Line breaks in the source are preserved where the format allows it;
// question detection depends on them to undo PDF line wrapping.
type Extractor interface {
	// SupportedExtensions returns the lowercase file extensions this
	// extractor handles, including the leading dot.
	SupportedExtensions() []string

	// Extract transforms an upload into plain text.
	Extract(ctx context.Context, upload *domain.RawUpload) (*ExtractResult, error)
}

// ExtractResult contains the output of text extraction.
type ExtractResult struct {
	// Text is the extracted plain text.
	Text string

	// Pages is the page count for paginated formats, 0 otherwise.
	Pages int
}

// ExtractorRegistry selects the extractor for an upload.
type ExtractorRegistry interface {
	// ForUpload returns the extractor handling the upload's extension.
	// Returns domain.ErrUnsupportedFileType when no extractor matches.
	ForUpload(upload *domain.RawUpload) (Extractor, error)

	// SupportedExtensions returns all registered extensions.
	SupportedExtensions() []string
}
