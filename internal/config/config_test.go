package config

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("STORAGE_BACKEND", "minio")
	os.Setenv("STORAGE_MAX_FILE_SIZE", "25MiB")
	os.Setenv("MINIO_USE_SSL", "true")
	defer func() {
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("STORAGE_BACKEND")
		os.Unsetenv("STORAGE_MAX_FILE_SIZE")
		os.Unsetenv("MINIO_USE_SSL")
	}()

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, uint64(25*1024*1024), cfg.Storage.MaxFileSize)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestBodyLimit(t *testing.T) {
	s := StorageConfig{MaxFileSize: 100 << 20, MaxFilesPerUpload: 10}
	assert.Equal(t, int(10*(100<<20)+(10<<20)), s.BodyLimit())

	// A per-file limit near the uint64 range must clamp instead of wrapping
	// into a negative fiber body limit.
	huge := StorageConfig{MaxFileSize: math.MaxUint64 / 2, MaxFilesPerUpload: 10}
	assert.Equal(t, math.MaxInt, huge.BodyLimit())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvBytes(t *testing.T) {
	key := "TEST_BYTES_VAR"

	os.Setenv(key, "1GiB")
	assert.Equal(t, uint64(1<<30), getEnvBytes(key, 0))

	os.Setenv(key, "not-a-size")
	assert.Equal(t, uint64(42), getEnvBytes(key, 42))

	os.Unsetenv(key)
	assert.Equal(t, uint64(42), getEnvBytes(key, 42))
}
