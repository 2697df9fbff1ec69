package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("BATCH_TTL", "15m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, CacheMemory, cfg.BatchCacheBackend)
	assert.Equal(t, 15*time.Minute, cfg.BatchTTL)
	assert.Equal(t, 24*time.Hour, cfg.BatchResultTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("PGSQL_URL", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
}
