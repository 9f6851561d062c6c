package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 60*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, 100, cfg.RateLimitMaxRequests)
	assert.Equal(t, PictureStoreLocal, cfg.PictureStore)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STORAGE", "memory")
	t.Setenv("DB_TIMEOUT_SEC", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("STORAGE", "memory")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STORAGE", "memory")
	t.Setenv("PICTURE_STORE", "s3")
	t.Setenv("S3_BUCKET_NAME", "")

	_, err := Load()
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
}

func TestLoadMigrationConfig_IgnoresAppSettings(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("STORAGE", "memory")
	t.Setenv("PICTURE_STORE", "s3")
	t.Setenv("DATABASE_URL", "postgres://localhost/people?sslmode=disable")
	t.Setenv("DB_TIMEOUT_SEC", "9")

	cfg, err := LoadMigrationConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/people?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, 9*time.Second, cfg.DBTimeout)
}

func TestLoadMigrationConfig_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadMigrationConfig()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
