package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddress)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, AuthMemory, cfg.Auth.Driver)
	assert.True(t, cfg.Loader.AutoRetry)
	assert.Equal(t, 2*time.Second, cfg.Loader.RetryDelay)
	assert.Equal(t, 3, cfg.Loader.MaxRetries)
	assert.Equal(t, 800*time.Millisecond, cfg.Loader.TenantPollInterval)
	assert.Equal(t, 2, cfg.Resolver.Retries)
	assert.Equal(t, time.Second, cfg.Resolver.RetryDelay)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_address: ":9000"
storage:
  driver: postgres
  dsn: postgres://u:p@localhost/babies
loader:
  max_retries: 5
  retry_delay: 500ms
events:
  kafka_brokers: [k1:9092]
`), 0o600))

	t.Setenv("LOADER_MAX_RETRIES", "1")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Loader.RetryDelay)
	assert.Equal(t, 1, cfg.Loader.MaxRetries)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Events.KafkaBrokers)
	// no tocados por el archivo
	assert.Equal(t, 800*time.Millisecond, cfg.Loader.TenantPollInterval)
}

func TestLoad_DSNImpliesPostgres(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DSN", "postgres://localhost/x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = StoragePostgres
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Auth.Driver = AuthGoTrue
	assert.Error(t, cfg.Validate())

	cfg.Auth.URL = "https://auth.example.test"
	cfg.Auth.APIKey = "anon"
	assert.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	assert.Error(t, cfg.Validate())
}
