// Package plaintext handles uploads that are already plain text.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and Markdown uploads.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown"}
}

// Extract returns the upload bytes as text. A UTF-8 byte order mark is
// stripped so the first word of the document survives tokenisation.
func (e *Extractor) Extract(_ context.Context, upload *domain.RawUpload) (*driven.ExtractResult, error) {
	if upload == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(upload.Data)
	text = strings.TrimPrefix(text, "\uFEFF")

	return &driven.ExtractResult{Text: text}, nil
}
