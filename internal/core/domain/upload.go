package domain

import (
	"path/filepath"
	"strings"
)

// RawUpload represents an uploaded file before text extraction.
// It is the pipeline's input: opaque bytes plus the name they arrived
// under, which decides which extractor handles them.
type RawUpload struct {
	// FileName is the name of the uploaded file, extension included.
	FileName string

	// Data is the raw file bytes.
	Data []byte
}

// Ext returns the lowercase file extension including the leading dot,
// or "" when the file name has none.
func (u *RawUpload) Ext() string {
	return strings.ToLower(filepath.Ext(u.FileName))
}
