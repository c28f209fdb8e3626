package keyvalue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores one JSON document per key under a root directory. Files
// are named namespace + key + ".json"; writes go through a temp file rename
// so a crash mid-write leaves the previous value intact.
type FileBackend struct {
	root      string
	namespace string
	logger    Logger
}

// NewFile returns a file-backed store rooted at path, creating it if needed.
func NewFile(root, namespace string, logger Logger) (*FileBackend, error) {
	if root == "" {
		root = "./hospicore-data"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create data root: %w", err)
	}
	return &FileBackend{root: root, namespace: namespace, logger: orNoop(logger)}, nil
}

// Driver identifies the backend implementation.
func (b *FileBackend) Driver() Driver { return DriverFile }

// sanitizeKey forbids separators and traversal so keys map to flat file names.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return key, nil
}

func (b *FileBackend) path(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.root, b.namespace+clean+".json"), nil
}

// Get returns the stored value for key.
func (b *FileBackend) Get(key string) ([]byte, bool) {
	path, err := b.path(key)
	if err != nil {
		b.logger.Warn("keyvalue get rejected", "key", key, "error", err)
		return nil, false
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from a sanitized key under the configured root
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			b.logger.Error("keyvalue get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Set stores value under key.
func (b *FileBackend) Set(key string, value []byte) bool {
	path, err := b.path(key)
	if err != nil {
		b.logger.Warn("keyvalue set rejected", "key", key, "error", err)
		return false
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		b.logger.Error("keyvalue set failed", "key", key, "error", err)
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		b.logger.Error("keyvalue set rename failed", "key", key, "error", err)
		_ = os.Remove(tmp)
		return false
	}
	return true
}

// Remove deletes key.
func (b *FileBackend) Remove(key string) bool {
	path, err := b.path(key)
	if err != nil {
		b.logger.Warn("keyvalue remove rejected", "key", key, "error", err)
		return false
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.logger.Error("keyvalue remove failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key under the namespace, leaving other files alone.
func (b *FileBackend) Clear() bool {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		b.logger.Error("keyvalue clear failed", "error", err)
		return false
	}
	ok := true
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, b.namespace) || !strings.HasSuffix(name, ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(b.root, name)); err != nil {
			b.logger.Error("keyvalue clear failed", "file", name, "error", err)
			ok = false
		}
	}
	return ok
}
