package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/responda-cli/internal/core/domain"
	"github.com/custodia-labs/responda-cli/internal/core/ports/driven"
)

// Ensure KnowledgeStore implements the interface.
var _ driven.KnowledgeStore = (*KnowledgeStore)(nil)

// KnowledgeStore is an in-memory implementation of driven.KnowledgeStore.
type KnowledgeStore struct {
	mu      sync.RWMutex
	entries map[string]domain.KnowledgeEntry
	order   []string
}

// NewKnowledgeStore creates a new in-memory knowledge store.
func NewKnowledgeStore() *KnowledgeStore {
	return &KnowledgeStore{
		entries: make(map[string]domain.KnowledgeEntry),
	}
}

// SaveEntry stores or replaces an entry together with all its chunks.
// The entry and its chunk slice are copied, so later mutations by the
// caller do not leak into the store.
func (s *KnowledgeStore) SaveEntry(_ context.Context, entry *domain.KnowledgeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copyEntry(*entry)
	sort.SliceStable(stored.Chunks, func(i, j int) bool {
		return stored.Chunks[i].Position < stored.Chunks[j].Position
	})
	if _, exists := s.entries[stored.ID]; !exists {
		s.order = append(s.order, stored.ID)
	}
	s.entries[stored.ID] = stored
	return nil
}

// GetEntry retrieves an entry by ID, chunks included.
func (s *KnowledgeStore) GetEntry(_ context.Context, id string) (*domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyEntry(entry)
	return &out, nil
}

// ListEntries returns all entries ordered by creation time.
func (s *KnowledgeStore) ListEntries(_ context.Context) ([]domain.KnowledgeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.KnowledgeEntry, 0, len(s.order))
	for _, id := range s.sortedIDs() {
		result = append(result, copyEntry(s.entries[id]))
	}
	return result, nil
}

// DeleteEntry removes an entry and its chunks. Unknown IDs are a no-op.
func (s *KnowledgeStore) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; !exists {
		return nil
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// AllChunks returns every chunk across all entries paired with its
// source file name, in entry order then chunk position order.
func (s *KnowledgeStore) AllChunks(_ context.Context) ([]domain.SourcedChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SourcedChunk
	for _, id := range s.sortedIDs() {
		entry := s.entries[id]
		for _, chunk := range entry.Chunks {
			result = append(result, domain.SourcedChunk{
				Chunk:      chunk,
				SourceFile: entry.FileName,
			})
		}
	}
	return result, nil
}

// Close releases resources (no-op for memory store).
func (s *KnowledgeStore) Close() error {
	return nil
}

// sortedIDs returns entry IDs ordered by creation time, insertion order
// breaking ties. Caller must hold the lock.
func (s *KnowledgeStore) sortedIDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.entries[ids[i]].CreatedAt.Before(s.entries[ids[j]].CreatedAt)
	})
	return ids
}

// copyEntry clones an entry with its own chunk slice so readers get a
// point-in-time snapshot.
func copyEntry(entry domain.KnowledgeEntry) domain.KnowledgeEntry {
	out := entry
	out.Chunks = make([]domain.Chunk, len(entry.Chunks))
	copy(out.Chunks, entry.Chunks)
	return out
}
