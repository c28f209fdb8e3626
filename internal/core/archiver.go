package core

import (
	"context"
	"fmt"

	"hospicore/internal/archive"
)

// Archiver ships store snapshots to an archive and restores from them.
type Archiver struct {
	store   *Store
	archive archive.Store
}

// NewArchiver pairs a collection store with an archive backend.
func NewArchiver(store *Store, backend archive.Store) *Archiver {
	return &Archiver{store: store, archive: backend}
}

// Archive exports the store and writes the snapshot under a timestamped key.
func (a *Archiver) Archive(ctx context.Context) (archive.Info, error) {
	data, err := a.store.ExportJSON()
	if err != nil {
		return archive.Info{}, fmt.Errorf("export snapshot: %w", err)
	}
	key := fmt.Sprintf("snapshot-%s.json", a.store.nowFn().UTC().Format("20060102T150405Z"))
	info, err := a.archive.Put(ctx, key, data)
	if err != nil {
		return archive.Info{}, fmt.Errorf("archive snapshot: %w", err)
	}
	return info, nil
}

// Restore loads an archived snapshot back into the store, overwriting every
// collection the snapshot names.
func (a *Archiver) Restore(ctx context.Context, key string) error {
	data, _, err := a.archive.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch snapshot %s: %w", key, err)
	}
	return a.store.ImportJSON(data)
}

// List enumerates the archived snapshots.
func (a *Archiver) List(ctx context.Context) ([]archive.Info, error) {
	return a.archive.List(ctx, "snapshot-")
}
