package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Responda resources.
	uriScheme = "responda://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing knowledge entries.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "knowledge",
		Name:        "knowledge",
		Description: "List of all documents in the knowledge base",
		MIMEType:    "application/json",
	}, s.handleKnowledgeResource)

	// Template for entry content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "knowledge/{entryId}",
		Name:        "knowledge-entry",
		Description: "Full text of a knowledge base entry",
		MIMEType:    "text/plain",
	}, s.handleEntryContentResource)
}

// handleKnowledgeResource returns a list of all knowledge base entries.
func (s *Server) handleKnowledgeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Knowledge == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	infos := make([]EntryOutput, len(entries))
	for i := range entries {
		infos[i] = EntryOutput{
			ID:        entries[i].ID,
			FileName:  entries[i].FileName,
			Chunks:    len(entries[i].Chunks),
			ByteSize:  entries[i].ByteSize,
			CreatedAt: entries[i].CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling entries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEntryContentResource returns the full text of a knowledge entry.
func (s *Server) handleEntryContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Knowledge == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract entryId from URI: responda://knowledge/{entryId}
	entryID := extractEntryID(req.Params.URI)
	if entryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.ports.Knowledge.Get(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     entry.Content,
		}},
	}, nil
}

// extractEntryID extracts the entry ID from a URI like responda://knowledge/{entryId}.
func extractEntryID(uri string) string {
	const prefix = uriScheme + "knowledge/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
