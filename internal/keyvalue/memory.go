package keyvalue

import "sync"

// MemoryBackend is a map-backed Backend for tests and ephemeral sessions.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory constructs an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

// Driver identifies the backend implementation.
func (b *MemoryBackend) Driver() Driver { return DriverMemory }

// Get returns the stored value for key.
func (b *MemoryBackend) Get(key string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.values[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), value...), true
}

// Set stores value under key.
func (b *MemoryBackend) Set(key string, value []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = append([]byte(nil), value...)
	return true
}

// Remove deletes key.
func (b *MemoryBackend) Remove(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
	return true
}

// Clear removes all keys.
func (b *MemoryBackend) Clear() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values = make(map[string][]byte)
	return true
}

// Len reports the number of stored keys.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}
