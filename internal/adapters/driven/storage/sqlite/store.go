package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/responda-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KnowledgeStore = (*Store)(nil)

// Store is a SQLite-backed knowledge store. Entries and their chunks are
// persisted in one transaction, so readers never observe a half-written
// entry.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.responda/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".responda", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveEntry stores an entry together with all its chunks in one
// transaction. Re-saving an existing ID replaces its chunks wholesale so
// a re-ingest cannot leave stale rows.
func (s *Store) SaveEntry(ctx context.Context, entry *domain.KnowledgeEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, file_name, content, embedding, byte_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file_name = excluded.file_name,
			content = excluded.content,
			embedding = excluded.embedding,
			byte_size = excluded.byte_size,
			created_at = excluded.created_at
	`, entry.ID, entry.FileName, entry.Content,
		float32SliceToBytes(entry.Embedding), entry.ByteSize, entry.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE entry_id = ?", entry.ID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, entry_id, content, position, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range entry.Chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, entry.ID, chunk.Content,
			chunk.Position, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetEntry retrieves an entry by ID, chunks included.
func (s *Store) GetEntry(ctx context.Context, id string) (*domain.KnowledgeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_name, content, embedding, byte_size, created_at
		FROM entries WHERE id = ?
	`, id)

	entry, err := scanEntryRow(row)
	if err != nil {
		return nil, err
	}

	entry.Chunks, err = s.entryChunks(ctx, id)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns all entries ordered by creation time, chunks
// included.
func (s *Store) ListEntries(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, content, embedding, byte_size, created_at
		FROM entries ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.KnowledgeEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanEntryRows(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	rows.Close()

	for i := range entries {
		chunks, err := s.entryChunks(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Chunks = chunks
	}

	return entries, nil
}

// DeleteEntry removes an entry; its chunks go with it via the foreign
// key cascade. Unknown IDs are a no-op.
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// AllChunks returns every chunk across all entries paired with its
// source file name, in entry order then chunk position order.
func (s *Store) AllChunks(ctx context.Context) ([]domain.SourcedChunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.entry_id, c.content, c.position, c.embedding, e.file_name
		FROM chunks c
		JOIN entries e ON e.id = c.entry_id
		ORDER BY e.created_at, e.rowid, c.position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var result []domain.SourcedChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var sourceFile string
		if err := rows.Scan(&chunk.ID, &chunk.EntryID, &chunk.Content,
			&chunk.Position, &embeddingBlob, &sourceFile); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		result = append(result, domain.SourcedChunk{Chunk: chunk, SourceFile: sourceFile})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return result, nil
}

// entryChunks loads the chunks of one entry ordered by position.
func (s *Store) entryChunks(ctx context.Context, entryID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entry_id, content, position, embedding
		FROM chunks WHERE entry_id = ?
		ORDER BY position
	`, entryID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.EntryID, &chunk.Content,
			&chunk.Position, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ==================== Helper Functions ====================

// scanEntryRow scans an entry from *sql.Row.
func scanEntryRow(row *sql.Row) (*domain.KnowledgeEntry, error) {
	var entry domain.KnowledgeEntry
	var embeddingBlob []byte

	if err := row.Scan(&entry.ID, &entry.FileName, &entry.Content,
		&embeddingBlob, &entry.ByteSize, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	entry.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &entry, nil
}

// scanEntryRows scans an entry from *sql.Rows.
func scanEntryRows(rows *sql.Rows) (*domain.KnowledgeEntry, error) {
	var entry domain.KnowledgeEntry
	var embeddingBlob []byte

	if err := rows.Scan(&entry.ID, &entry.FileName, &entry.Content,
		&embeddingBlob, &entry.ByteSize, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	entry.Embedding = bytesToFloat32Slice(embeddingBlob)
	return &entry, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
