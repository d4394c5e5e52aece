package domain

import "time"

// KnowledgeEntry represents one ingested reference document.
// It is created atomically on successful ingestion: the whole-document
// embedding and every chunk embedding exist before the entry is persisted.
type KnowledgeEntry struct {
	// ID is the unique identifier for the entry.
	ID string

	// FileName is the name of the source file as uploaded.
	FileName string

	// Content is the full extracted text of the document.
	Content string

	// Embedding is the whole-document vector, computed over a
	// length-capped prefix of Content.
	Embedding []float32

	// Chunks are the retrievable segments of the document, ordered by
	// position. Chunks are immutable once the entry is created and are
	// owned exclusively by this entry.
	Chunks []Chunk

	// CreatedAt is when the entry was ingested.
	CreatedAt time.Time

	// ByteSize is the size of the extracted text in bytes.
	ByteSize int
}

// Chunk represents a retrievable unit within a knowledge entry.
// Entries are split into sentence-aligned chunks so retrieval can
// surface a focused passage rather than a whole document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// EntryID links to the parent KnowledgeEntry.
	EntryID string

	// Content is the trimmed text of this chunk.
	Content string

	// Position is the ordinal position within the entry.
	Position int

	// Embedding is the vector representation for similarity ranking.
	Embedding []float32
}

// SourcedChunk pairs a chunk with the file name of the entry that owns it,
// for retrieval results that must cite their source.
type SourcedChunk struct {
	Chunk      Chunk
	SourceFile string
}
