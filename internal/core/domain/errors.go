package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates an embedding call failed or the
	// embedding service is not configured. Ingestion and retrieval are
	// impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCompletionUnavailable indicates a completion call failed or the
	// LLM service is not configured. Answer drafting degrades to failure
	// notices and the canned summary.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrDimensionMismatch indicates two embeddings of different lengths
	// were compared. This means the embedding provider changed
	// mid-session and stored vectors need re-embedding.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedFileType indicates no extractor handles the
	// uploaded file's extension.
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
