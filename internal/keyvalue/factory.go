package keyvalue

import "fmt"

// Config selects and parameterizes a backend driver.
type Config struct {
	Driver    Driver
	Namespace string // key prefix, e.g. "hospital_"
	Path      string // file root (file driver) or database file (sqlite driver)
	DSN       string // postgres connection string
}

// Open constructs the configured backend. Defaults to sqlite when the driver
// is unset.
func Open(cfg Config, logger Logger) (Backend, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return NewFile(cfg.Path, cfg.Namespace, logger)
	case DriverSQLite:
		return NewSQLite(cfg.Path, cfg.Namespace, logger)
	case DriverPostgres:
		return NewPostgres(cfg.DSN, cfg.Namespace, logger)
	default:
		return nil, fmt.Errorf("unknown keyvalue driver %s", driver)
	}
}
