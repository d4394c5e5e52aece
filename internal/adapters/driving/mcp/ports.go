package mcp

import (
	"github.com/custodia-labs/responda-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval ranks knowledge chunks against queries.
	Retrieval driving.RetrievalService

	// Detection extracts questions from request document text.
	Detection driving.DetectionService

	// Answer drafts answers against the knowledge base.
	Answer driving.AnswerService

	// Knowledge manages the knowledge base contents.
	Knowledge driving.KnowledgeService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Detection == nil {
		return ErrMissingDetectionService
	}
	// Answer and Knowledge are optional: their tools report the missing
	// service at call time so search keeps working without an LLM.
	return nil
}
