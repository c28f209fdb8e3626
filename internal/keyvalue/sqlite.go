package keyvalue

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteBackend persists keys to a single embedded sqlite table. Both the
// value documents and the namespacing match the other drivers, so a session
// can move between backends by export/import.
type SQLiteBackend struct {
	db        *sql.DB
	namespace string
	path      string
	logger    Logger
}

// NewSQLite opens (creating if needed) the sqlite file at path.
func NewSQLite(path, namespace string, logger Logger) (*SQLiteBackend, error) {
	if path == "" {
		path = "hospicore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &SQLiteBackend{db: db, namespace: namespace, path: path, logger: orNoop(logger)}, nil
}

// Driver identifies the backend implementation.
func (b *SQLiteBackend) Driver() Driver { return DriverSQLite }

// Path returns the configured database path.
func (b *SQLiteBackend) Path() string { return b.path }

// DB exposes the underlying sql.DB for integration testing hooks.
func (b *SQLiteBackend) DB() *sql.DB { return b.db }

// Get returns the stored value for key.
func (b *SQLiteBackend) Get(key string) ([]byte, bool) {
	var payload []byte
	err := b.db.QueryRow(`SELECT payload FROM state WHERE key = ?`, b.namespace+key).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			b.logger.Error("keyvalue get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return payload, true
}

// Set stores value under key.
func (b *SQLiteBackend) Set(key string, value []byte) bool {
	_, err := b.db.Exec(
		`INSERT INTO state(key, payload) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		b.namespace+key, value)
	if err != nil {
		b.logger.Error("keyvalue set failed", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key.
func (b *SQLiteBackend) Remove(key string) bool {
	if _, err := b.db.Exec(`DELETE FROM state WHERE key = ?`, b.namespace+key); err != nil {
		b.logger.Error("keyvalue remove failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key under the namespace.
func (b *SQLiteBackend) Clear() bool {
	if _, err := b.db.Exec(`DELETE FROM state WHERE key LIKE ? ESCAPE '\'`, escapeLike(b.namespace)+"%"); err != nil {
		b.logger.Error("keyvalue clear failed", "error", err)
		return false
	}
	return true
}

// Close releases the database handle.
func (b *SQLiteBackend) Close() error { return b.db.Close() }

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
