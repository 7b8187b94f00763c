// Package store provides lookup stores for related records.
package store

import (
	"sort"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory id -> record directory
// =============================================================================

// Memory holds records by id. Handlers build one per request from the
// related records the client sent, then hand Lookup to generic.Ref.Resolve.
type Memory[T any] struct {
	mu      sync.RWMutex
	records map[string]T
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{records: make(map[string]T)}
}

// Put stores a record. Empty ids are ignored; a repeated id replaces the
// previous record.
func (m *Memory[T]) Put(id string, v T) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id] = v
}

// PutBatch stores records keyed by idOf.
func (m *Memory[T]) PutBatch(values []T, idOf func(T) string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		if id := idOf(v); id != "" {
			m.records[id] = v
		}
	}
}

// Lookup matches the resolver signature of generic.Ref.
func (m *Memory[T]) Lookup(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[id]
	return v, ok
}

func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// IDs returns the stored ids in ascending order.
func (m *Memory[T]) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
