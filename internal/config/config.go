package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"hospicore/internal/archive"
	"hospicore/internal/keyvalue"
)

// Config carries the runtime settings for the storage backend and the export
// archive.
type Config struct {
	Storage keyvalue.Config
	Archive archive.Config
}

// Load reads configuration from the environment with sensible defaults,
// loading a .env file first when one is present. Precedence: explicit env
// var > .env file > default.
//
//	HOSPICORE_STORAGE_DRIVER: memory|file|sqlite|postgres (default sqlite)
//	HOSPICORE_STORAGE_PATH: sqlite file or file-driver root (default hospicore.db)
//	HOSPICORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	HOSPICORE_NAMESPACE: key prefix shared by all collections (default hospital_)
//	HOSPICORE_ARCHIVE_DRIVER: memory|fs|s3 (default fs)
//	HOSPICORE_ARCHIVE_ROOT: fs archive root (default hospicore-archive)
//	HOSPICORE_ARCHIVE_S3_*: BUCKET, PREFIX, REGION, ENDPOINT, ACCESS_KEY,
//	  SECRET_KEY, PATH_STYLE when driver=s3
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Storage: keyvalue.Config{
			Driver:    keyvalue.Driver(getEnv("HOSPICORE_STORAGE_DRIVER", string(keyvalue.DriverSQLite))),
			Path:      getEnv("HOSPICORE_STORAGE_PATH", "hospicore.db"),
			DSN:       os.Getenv("HOSPICORE_POSTGRES_DSN"),
			Namespace: getEnv("HOSPICORE_NAMESPACE", "hospital_"),
		},
		Archive: archive.Config{
			Driver:       archive.Driver(getEnv("HOSPICORE_ARCHIVE_DRIVER", string(archive.DriverFS))),
			Root:         getEnv("HOSPICORE_ARCHIVE_ROOT", "hospicore-archive"),
			Bucket:       os.Getenv("HOSPICORE_ARCHIVE_S3_BUCKET"),
			Prefix:       os.Getenv("HOSPICORE_ARCHIVE_S3_PREFIX"),
			Region:       os.Getenv("HOSPICORE_ARCHIVE_S3_REGION"),
			Endpoint:     os.Getenv("HOSPICORE_ARCHIVE_S3_ENDPOINT"),
			AccessKey:    os.Getenv("HOSPICORE_ARCHIVE_S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("HOSPICORE_ARCHIVE_S3_SECRET_KEY"),
			UsePathStyle: parseBool("HOSPICORE_ARCHIVE_S3_PATH_STYLE", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid boolean for %s: %s", key, v)
		return def
	}
	return b
}
