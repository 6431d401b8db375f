package store

import (
	"context"
	"sort"
	"sync"

	"github.com/agenthands/echofilter/internal/core/model"
)

// MemoryStore holds analyses for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*model.Analysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{analyses: make(map[string]*model.Analysis)}
}

func (m *MemoryStore) Save(ctx context.Context, a *model.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[a.ID] = a
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*model.Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.analyses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) List(ctx context.Context, limit int) ([]model.Summary, error) {
	m.mu.RLock()
	out := make([]model.Summary, 0, len(m.analyses))
	for _, a := range m.analyses {
		out = append(out, a.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.analyses[id]; !ok {
		return ErrNotFound
	}
	delete(m.analyses, id)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Open returns a SQLite store for path, or an in-memory store when path is empty.
func Open(path string) (AnalysisStore, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(path)
}
