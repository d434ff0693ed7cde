package config

import (
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the optional MinIO backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects and tunes the file store backend.
// MaxFileSize accepts human-readable values ("100MB", "1.5GiB").
// NameSecret keys the stored-filename hash; when unset each process picks a
// random key at startup.
type StorageConfig struct {
	Backend           string // "local" or "minio"
	Root              string
	MaxFileSize       uint64
	MaxFilesPerUpload int
	TempMaxAgeHours   int
	CleanupEveryMin   int
	NameSecret        string
}

// BodyLimit returns the request body ceiling for a full batch upload, with
// slack for multipart framing, clamped to the platform's int range so large
// per-file limits do not overflow on 32-bit builds. The overflow check runs
// before the multiplication so the product itself cannot wrap.
func (s StorageConfig) BodyLimit() int {
	const slack = uint64(10 * humanize.MiByte)
	files := uint64(s.MaxFilesPerUpload)
	if files == 0 {
		files = 1
	}
	if s.MaxFileSize > (uint64(math.MaxInt)-slack)/files {
		return math.MaxInt
	}
	return int(s.MaxFileSize*files + slack)
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Backend:           getEnv("STORAGE_BACKEND", "local"),
			Root:              getEnv("STORAGE_ROOT", "./uploads/documents"),
			MaxFileSize:       getEnvBytes("STORAGE_MAX_FILE_SIZE", 100*humanize.MiByte),
			MaxFilesPerUpload: getEnvInt("STORAGE_MAX_FILES_PER_UPLOAD", 10),
			TempMaxAgeHours:   getEnvInt("STORAGE_TEMP_MAX_AGE_HOURS", 24),
			CleanupEveryMin:   getEnvInt("STORAGE_CLEANUP_EVERY_MIN", 60),
			NameSecret:        getEnv("STORAGE_NAME_SECRET", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvBytes(key string, def uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		n, err := humanize.ParseBytes(v)
		if err == nil {
			return n
		}
	}
	return def
}
