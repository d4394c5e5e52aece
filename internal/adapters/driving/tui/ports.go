// Package tui provides the interactive answer review interface for responda.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer drives the question answering pipeline.
	Answer driving.AnswerService

	// Action provides actions on answered questions.
	Action driving.AnswerActionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Action is optional: the review view reports the missing service
	// when a copy is attempted.
	return nil
}
