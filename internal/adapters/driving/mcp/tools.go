package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_knowledge tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query to find relevant knowledge"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of matches to return (default 5)"`
}

// SearchOutput is the output schema for the search_knowledge tool.
type SearchOutput struct {
	Matches []MatchOutput `json:"matches"`
	Count   int           `json:"count"`
}

// MatchOutput represents a single retrieved knowledge match.
type MatchOutput struct {
	ChunkID    string  `json:"chunk_id"`
	SourceFile string  `json:"source_file"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// DetectInput is the input schema for the detect_questions tool.
type DetectInput struct {
	Text string `json:"text" jsonschema:"the request document text to scan for questions"`
}

// DetectOutput is the output schema for the detect_questions tool.
type DetectOutput struct {
	Questions []string `json:"questions"`
	Count     int      `json:"count"`
}

// AnswerInput is the input schema for the answer_question tool.
type AnswerInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
}

// AnswerOutput is the output schema for the answer_question tool.
type AnswerOutput struct {
	Question   string        `json:"question"`
	Answer     string        `json:"answer"`
	Confidence float64       `json:"confidence"`
	Matches    []MatchOutput `json:"matches"`
}

// ListKnowledgeInput is the input schema for the list_knowledge tool.
type ListKnowledgeInput struct{}

// ListKnowledgeOutput is the output schema for the list_knowledge tool.
type ListKnowledgeOutput struct {
	Entries []EntryOutput `json:"entries"`
	Count   int           `json:"count"`
}

// EntryOutput represents a single knowledge base entry.
type EntryOutput struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	Chunks    int    `json:"chunks"`
	ByteSize  int    `json:"byte_size"`
	CreatedAt string `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_knowledge",
		Description: "Search the knowledge base for passages relevant to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_questions",
		Description: "Detect the questions contained in request document text",
	}, s.handleDetect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_question",
		Description: "Draft an answer to a single question grounded in the knowledge base",
	}, s.handleAnswer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_knowledge",
		Description: "List the documents currently in the knowledge base",
	}, s.handleListKnowledge)
}

// handleSearch handles the search_knowledge tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	matches, err := s.ports.Retrieval.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Matches: matchOutputs(matches),
		Count:   len(matches),
	}

	return nil, output, nil
}

// handleDetect handles the detect_questions tool invocation.
func (s *Server) handleDetect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input DetectInput,
) (*mcp.CallToolResult, DetectOutput, error) {
	questions := s.ports.Detection.Detect(input.Text)

	output := DetectOutput{
		Questions: questions,
		Count:     len(questions),
	}

	return nil, output, nil
}

// handleAnswer handles the answer_question tool invocation.
func (s *Server) handleAnswer(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerInput,
) (*mcp.CallToolResult, AnswerOutput, error) {
	if s.ports.Answer == nil {
		return nil, AnswerOutput{}, domain.ErrCompletionUnavailable
	}

	answered, err := s.ports.Answer.AnswerQuestion(ctx, input.Question)
	if err != nil {
		return nil, AnswerOutput{}, err
	}

	output := AnswerOutput{
		Question:   answered.Question,
		Answer:     answered.FinalAnswer(),
		Confidence: answered.Confidence,
		Matches:    matchOutputs(answered.Matches),
	}

	return nil, output, nil
}

// handleListKnowledge handles the list_knowledge tool invocation.
func (s *Server) handleListKnowledge(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListKnowledgeInput,
) (*mcp.CallToolResult, ListKnowledgeOutput, error) {
	if s.ports.Knowledge == nil {
		return nil, ListKnowledgeOutput{}, domain.ErrNotFound
	}

	entries, err := s.ports.Knowledge.List(ctx)
	if err != nil {
		return nil, ListKnowledgeOutput{}, err
	}

	output := ListKnowledgeOutput{
		Entries: make([]EntryOutput, len(entries)),
		Count:   len(entries),
	}

	for i := range entries {
		output.Entries[i] = EntryOutput{
			ID:        entries[i].ID,
			FileName:  entries[i].FileName,
			Chunks:    len(entries[i].Chunks),
			ByteSize:  entries[i].ByteSize,
			CreatedAt: entries[i].CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return nil, output, nil
}

// matchOutputs converts retrieved matches to their wire representation.
func matchOutputs(matches []domain.RetrievedMatch) []MatchOutput {
	out := make([]MatchOutput, len(matches))
	for i := range matches {
		out[i] = MatchOutput{
			ChunkID:    matches[i].ChunkID,
			SourceFile: matches[i].SourceFile,
			Score:      matches[i].Score,
			Content:    matches[i].Content,
		}
	}
	return out
}
