package keyvalue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const defaultPostgresDSN = "postgres://localhost/hospicore?sslmode=disable"

// PostgresBackend persists keys to a PostgreSQL table, mirroring the sqlite
// driver's layout for deployments that want the state on a server.
type PostgresBackend struct {
	db        *sql.DB
	namespace string
	logger    Logger
}

// NewPostgres opens a PostgreSQL-backed store using the provided DSN
// (falls back to a local default when empty).
func NewPostgres(dsn, namespace string, logger Logger) (*PostgresBackend, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &PostgresBackend{db: db, namespace: namespace, logger: orNoop(logger)}, nil
}

// Driver identifies the backend implementation.
func (b *PostgresBackend) Driver() Driver { return DriverPostgres }

// DB exposes the underlying sql.DB for integration testing hooks.
func (b *PostgresBackend) DB() *sql.DB { return b.db }

// Get returns the stored value for key.
func (b *PostgresBackend) Get(key string) ([]byte, bool) {
	var payload []byte
	err := b.db.QueryRow(`SELECT payload FROM state WHERE key = $1`, b.namespace+key).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			b.logger.Error("keyvalue get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return payload, true
}

// Set stores value under key.
func (b *PostgresBackend) Set(key string, value []byte) bool {
	_, err := b.db.Exec(
		`INSERT INTO state(key, payload) VALUES($1, $2) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		b.namespace+key, value)
	if err != nil {
		b.logger.Error("keyvalue set failed", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key.
func (b *PostgresBackend) Remove(key string) bool {
	if _, err := b.db.Exec(`DELETE FROM state WHERE key = $1`, b.namespace+key); err != nil {
		b.logger.Error("keyvalue remove failed", "key", key, "error", err)
		return false
	}
	return true
}

// Clear removes every key under the namespace.
func (b *PostgresBackend) Clear() bool {
	if _, err := b.db.Exec(`DELETE FROM state WHERE key LIKE $1`, escapeLike(b.namespace)+"%"); err != nil {
		b.logger.Error("keyvalue clear failed", "error", err)
		return false
	}
	return true
}

// Close releases the database handle.
func (b *PostgresBackend) Close() error { return b.db.Close() }
