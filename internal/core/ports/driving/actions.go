package driving

import (
	"context"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// AnswerActionService provides actions on answered questions for external
// actors. This is used by TUI and CLI adapters.
type AnswerActionService interface {
	// CopyToClipboard copies the question's final answer to the system clipboard.
	CopyToClipboard(ctx context.Context, question *domain.AnsweredQuestion) error
}
