package sentinelconfig

import (
	"sort"
	"sync"
)

// Store is the shared key/value configuration. It is filled once during
// initialization and never cleared; reads are safe from any goroutine.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

func newStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	return value, ok
}

// GetOrDefault returns the value for key, or fallback when key is absent.
func (s *Store) GetOrDefault(key, fallback string) string {
	if value, ok := s.Get(key); ok {
		return value
	}
	return fallback
}

// Put stores value under key and returns the value it replaced, if any.
func (s *Store) Put(key, value string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, existed := s.entries[key]
	s.entries[key] = value
	return old, existed
}

// PutAll copies every entry of src into the store, overwriting existing keys.
func (s *Store) PutAll(src map[string]string) {
	s.mu.Lock()
	for k, v := range src {
		s.entries[k] = v
	}
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of every entry.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
