package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory Store for tests and single-process use.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{recs: make(map[string]*Record)}
}

// Put archives a record.
func (m *Memory) Put(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
	return nil
}

// Get retrieves a record by ID.
func (m *Memory) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, notFound(id)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (m *Memory) List(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.recs))
	for _, rec := range m.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record by ID.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

// Close does nothing for the in-memory store.
func (m *Memory) Close(ctx context.Context) error {
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
