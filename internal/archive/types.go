// Package archive stores exported snapshot documents outside the live
// backend, so a backup survives wiping the store it was taken from.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Driver identifies a concrete archive backend implementation.
type Driver string

const (
	// DriverMemory is the in-memory implementation, used in tests.
	DriverMemory Driver = "memory"
	// DriverFS is the local filesystem implementation (default, dev).
	DriverFS Driver = "fs"
	// DriverS3 is an S3 / MinIO compatible implementation.
	DriverS3 Driver = "s3"
)

// Info describes a stored snapshot.
type Info struct {
	Key       string    `json:"key"`
	Size      int64     `json:"sizeBytes"`
	ETag      string    `json:"etag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists snapshot documents under unique keys. Snapshots are
// immutable: writing an existing key fails.
type Store interface {
	Put(ctx context.Context, key string, data []byte) (Info, error)
	Get(ctx context.Context, key string) ([]byte, Info, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}

// ErrNotFound indicates no snapshot is stored under the requested key.
var ErrNotFound = errors.New("archive: snapshot not found")

// Config selects and parameterizes an archive driver.
type Config struct {
	Driver       Driver
	Root         string // fs driver directory
	Bucket       string // s3 bucket
	Prefix       string // s3 key prefix
	Region       string // s3 region (default us-east-1)
	Endpoint     string // optional custom endpoint, e.g. MinIO
	AccessKey    string // optional static credentials
	SecretKey    string
	UsePathStyle bool
}

// Open constructs the configured archive store. Defaults to fs when the
// driver is unset.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverFS
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFS:
		return NewFS(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown archive driver %s", driver)
	}
}
