package driving

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// AnswerService drives the question answering pipeline for external actors.
// This is used by CLI, TUI, and MCP adapters.
type AnswerService interface {
	// ProcessUpload extracts text from an uploaded request document, then
	// detects and answers its questions. Returns domain.ErrUnsupportedFileType
	// when no extractor handles the upload's extension.
	ProcessUpload(ctx context.Context, upload *domain.RawUpload, opts ProcessOptions) (*domain.ResponseDocument, error)

	// ProcessText detects and answers questions in already-extracted text.
	// The title is carried onto the resulting response document.
	ProcessText(ctx context.Context, title, text string, opts ProcessOptions) (*domain.ResponseDocument, error)

	// AnswerQuestion answers a single free-standing question against the
	// knowledge base.
	AnswerQuestion(ctx context.Context, question string) (*domain.AnsweredQuestion, error)
}

// ProcessOptions configures an answering run.
type ProcessOptions struct {
	// TopK is the number of knowledge matches retrieved per question.
	// Zero means the configured default.
	TopK int

	// Progress receives pipeline progress events. May be nil.
	Progress domain.ProgressFunc
}
