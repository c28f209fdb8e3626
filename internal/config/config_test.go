package config

import (
	"testing"

	"hospicore/internal/archive"
	"hospicore/internal/keyvalue"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOSPICORE_STORAGE_DRIVER",
		"HOSPICORE_STORAGE_PATH",
		"HOSPICORE_POSTGRES_DSN",
		"HOSPICORE_NAMESPACE",
		"HOSPICORE_ARCHIVE_DRIVER",
		"HOSPICORE_ARCHIVE_ROOT",
		"HOSPICORE_ARCHIVE_S3_BUCKET",
		"HOSPICORE_ARCHIVE_S3_PATH_STYLE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Storage.Driver != keyvalue.DriverSQLite {
		t.Errorf("storage driver = %s, want sqlite", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "hospicore.db" {
		t.Errorf("storage path = %s", cfg.Storage.Path)
	}
	if cfg.Storage.Namespace != "hospital_" {
		t.Errorf("namespace = %s", cfg.Storage.Namespace)
	}
	if cfg.Archive.Driver != archive.DriverFS {
		t.Errorf("archive driver = %s, want fs", cfg.Archive.Driver)
	}
	if cfg.Archive.Root != "hospicore-archive" {
		t.Errorf("archive root = %s", cfg.Archive.Root)
	}
	if cfg.Archive.UsePathStyle {
		t.Error("path style should default to false")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOSPICORE_STORAGE_DRIVER", "postgres")
	t.Setenv("HOSPICORE_POSTGRES_DSN", "postgres://localhost/hospital")
	t.Setenv("HOSPICORE_NAMESPACE", "clinic_")
	t.Setenv("HOSPICORE_ARCHIVE_DRIVER", "s3")
	t.Setenv("HOSPICORE_ARCHIVE_S3_BUCKET", "backups")
	t.Setenv("HOSPICORE_ARCHIVE_S3_PATH_STYLE", "true")

	cfg := Load()
	if cfg.Storage.Driver != keyvalue.DriverPostgres {
		t.Errorf("storage driver = %s, want postgres", cfg.Storage.Driver)
	}
	if cfg.Storage.DSN != "postgres://localhost/hospital" {
		t.Errorf("dsn = %s", cfg.Storage.DSN)
	}
	if cfg.Storage.Namespace != "clinic_" {
		t.Errorf("namespace = %s", cfg.Storage.Namespace)
	}
	if cfg.Archive.Driver != archive.DriverS3 {
		t.Errorf("archive driver = %s, want s3", cfg.Archive.Driver)
	}
	if cfg.Archive.Bucket != "backups" {
		t.Errorf("bucket = %s", cfg.Archive.Bucket)
	}
	if !cfg.Archive.UsePathStyle {
		t.Error("path style not picked up")
	}
}

func TestLoadIgnoresInvalidBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOSPICORE_ARCHIVE_S3_PATH_STYLE", "definitely")

	if cfg := Load(); cfg.Archive.UsePathStyle {
		t.Error("invalid bool should fall back to default")
	}
}
