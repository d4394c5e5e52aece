package extractors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
// Later registrations win when two extractors claim the same extension.
type Registry struct {
	byExt map[string]driven.Extractor
}

// NewRegistry creates a registry with the given extractors registered.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{
		byExt: make(map[string]driven.Extractor),
	}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Register adds an extractor for all extensions it supports.
func (r *Registry) Register(e driven.Extractor) {
	if e == nil {
		return
	}
	for _, ext := range e.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = e
	}
}

// ForUpload returns the extractor handling the upload's extension.
func (r *Registry) ForUpload(upload *domain.RawUpload) (driven.Extractor, error) {
	if upload == nil {
		return nil, domain.ErrInvalidInput
	}

	ext := upload.Ext()
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no file extension", domain.ErrUnsupportedFileType, upload.FileName)
	}

	e, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, ext)
	}
	return e, nil
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
