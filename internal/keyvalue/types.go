// Package keyvalue provides the durable key-value backends the collection
// store persists to. Values are opaque serialized documents; every driver
// namespaces its keys so unrelated data in the same physical store survives
// Clear. Operations are synchronous and never panic: a failed read or a
// corrupt value is reported as absence, a failed write as false, with the
// diagnostic going to the configured logger.
package keyvalue

// Driver identifies a concrete key-value backend implementation.
type Driver string

const (
	// DriverMemory is the in-memory implementation used by tests and
	// ephemeral sessions.
	DriverMemory Driver = "memory"
	// DriverFile stores one JSON file per key under a root directory.
	DriverFile Driver = "file"
	// DriverSQLite stores keys in a single embedded sqlite table.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores keys in a PostgreSQL table.
	DriverPostgres Driver = "postgres"
)

// Backend is the durable get/set/remove contract the collection store builds
// on. Callers check boolean results rather than handling errors; a storage
// hiccup must degrade to "did not happen", never crash the session.
type Backend interface {
	// Get returns the stored value for key, or false when the key is absent
	// or unreadable.
	Get(key string) ([]byte, bool)
	// Set durably stores value under key, reporting success.
	Set(key string, value []byte) bool
	// Remove deletes key, reporting success. Removing an absent key succeeds.
	Remove(key string) bool
	// Clear removes every key under this backend's namespace, leaving
	// unrelated data in the physical store untouched.
	Clear() bool
	// Driver identifies the backend implementation.
	Driver() Driver
}

// Logger is the minimal logging surface backends report diagnostics to.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func orNoop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}
