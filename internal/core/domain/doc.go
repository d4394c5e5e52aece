// Package domain defines the core business entities for Responda.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - KnowledgeEntry: An ingested reference document with its embeddings
//   - Chunk: A retrievable unit within a knowledge entry
//   - AnsweredQuestion: One detected question with its drafted answer
//   - ResponseDocument: The assembled response handed to a writer
//   - RawUpload: Opaque bytes handed to the pipeline before extraction
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
