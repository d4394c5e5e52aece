package driving

// DetectionService extracts questions from request document text.
// This is used by CLI and MCP adapters.
type DetectionService interface {
	// Detect returns the unique questions found in raw text, ordered by
	// first occurrence. An empty result means the text contains no
	// detectable questions.
	Detect(rawText string) []string
}
