package tidecache

import (
	"context"
	"sync"

	"github.com/treklab/coasttrek/internal/tide"
)

// MemoryStore keeps cached prediction series in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]tide.Observation
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]tide.Observation)}
}

func memKey(station, day string) string { return station + "/" + day }

// Get returns the cached series for a key, if present.
func (m *MemoryStore) Get(_ context.Context, station, day string) ([]tide.Observation, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obs, ok := m.entries[memKey(station, day)]
	return obs, ok, nil
}

// Put stores a series. Entries are immutable in practice; a concurrent
// duplicate write simply replaces identical data.
func (m *MemoryStore) Put(_ context.Context, station, day string, obs []tide.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(station, day)] = append([]tide.Observation(nil), obs...)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }
