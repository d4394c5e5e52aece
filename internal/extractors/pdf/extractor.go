// Package pdf extracts text from PDF uploads.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF uploads.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract pulls plain text from every page of the PDF. Pages that fail to
// render are skipped; a document where no page renders still returns the
// empty text rather than an error.
func (e *Extractor) Extract(_ context.Context, upload *domain.RawUpload) (*driven.ExtractResult, error) {
	if upload == nil || len(upload.Data) == 0 {
		return nil, domain.ErrInvalidInput
	}

	reader, err := pdf.NewReader(bytes.NewReader(upload.Data), int64(len(upload.Data)))
	if err != nil {
		return nil, fmt.Errorf("%w: parse pdf: %v", domain.ErrInvalidInput, err)
	}

	pages := reader.NumPage()

	var builder strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return &driven.ExtractResult{
		Text:  builder.String(),
		Pages: pages,
	}, nil
}
