package core

import (
	"fmt"

	"hospicore/internal/keyvalue"
)

// OpenStore opens the configured key-value backend and wraps it in a
// collection store. The returned backend is also handed back so callers can
// close drivers that hold resources.
func OpenStore(cfg keyvalue.Config, logger Logger, opts ...StoreOption) (*Store, keyvalue.Backend, error) {
	backend, err := keyvalue.Open(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s backend: %w", cfg.Driver, err)
	}
	opts = append([]StoreOption{WithStoreLogger(logger)}, opts...)
	return NewStore(backend, opts...), backend, nil
}
