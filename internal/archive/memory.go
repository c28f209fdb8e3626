package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data []byte
	info Info
}

// MemoryStore is a map-backed archive for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory constructs an empty in-memory archive.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Driver identifies the backend.
func (m *MemoryStore) Driver() Driver { return DriverMemory }

// Put stores a snapshot under key, failing when the key already exists.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte) (Info, error) {
	if key == "" {
		return Info{}, fmt.Errorf("empty archive key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return Info{}, fmt.Errorf("snapshot %s already exists", key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	info := Info{Key: key, Size: int64(len(cp)), ETag: contentETag(cp), CreatedAt: time.Now().UTC()}
	m.entries[key] = memoryEntry{data: cp, info: info}
	return info, nil
}

// Get retrieves a snapshot by key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, Info{}, ErrNotFound
	}
	cp := make([]byte, len(entry.data))
	copy(cp, entry.data)
	return cp, entry.info, nil
}

// List returns the stored snapshots under prefix, ordered by key.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.entries))
	for key, entry := range m.entries {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, entry.info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Delete removes a snapshot, reporting whether it existed.
func (m *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}
