// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// ProcessProgress carries one pipeline progress observation to the model.
type ProcessProgress struct {
	Event domain.ProgressEvent
}

// ProcessCompleted signals that the answering pipeline finished.
type ProcessCompleted struct {
	Doc *domain.ResponseDocument
	Err error
}

// ReviewAccepted signals the reviewed document should be output.
type ReviewAccepted struct{}

// Quit signals the application should exit without output.
type Quit struct{}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewProcessing shows pipeline progress while answers are drafted.
	ViewProcessing ViewType = iota
	// ViewReview is the answer review and editing view.
	ViewReview
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewProcessing:
		return "processing"
	case ViewReview:
		return "review"
	default:
		return "unknown"
	}
}
