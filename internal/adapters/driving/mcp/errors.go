// Package mcp provides an MCP (Model Context Protocol) server adapter for Responda.
// It lets AI assistants like Claude search the knowledge base, detect questions
// in request documents, and draft grounded answers.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrMissingDetectionService is returned when the detection service is not provided.
var ErrMissingDetectionService = errors.New("mcp: detection service is required")
