package leaderboard

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in process memory. It is safe for concurrent use
// and loses everything on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *MemoryStore) Top(ctx context.Context, n int) ([]Record, error) {
	m.mu.RLock()
	records := slices.Clone(m.records)
	m.mu.RUnlock()
	return sortRecords(records, n), nil
}

func (m *MemoryStore) Close() error { return nil }
