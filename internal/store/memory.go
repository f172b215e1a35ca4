package store

import (
	"sync"

	"github.com/i474232898/yr-weather/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Entries are only ever overwritten; freshness is decided by the caller.
type MemoryStore struct {
	mu sync.RWMutex

	// key: coordinate key, value: last successful fetch
	data map[string]weather.CacheEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.CacheEntry),
	}
}

// Save stores entry under key, replacing any previous entry.
func (s *MemoryStore) Save(key string, entry weather.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry
}

// Get returns the entry stored under key.
func (s *MemoryStore) Get(key string) (weather.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.data[key]
	return entry, ok
}

// Len reports the number of cached keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
