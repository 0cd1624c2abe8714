package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, ".fomod/sessions", cfg.SessionDir)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, "fomod:session:", cfg.RedisPrefix)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.False(t, cfg.Metrics)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"FOMOD_HTTP_ADDR":   "127.0.0.1:9000",
		"FOMOD_REDIS_ADDR":  "localhost:6379",
		"FOMOD_SESSION_TTL": "2h",
		"FOMOD_LOG_LEVEL":   "debug",
		"FOMOD_METRICS":     "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, StoreRedis, cfg.Store, "redis address implies the redis store")
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.True(t, cfg.Metrics)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{"bad duration", map[string]string{"FOMOD_SESSION_TTL": "soon"}, "parse env:"},
		{"unknown store", map[string]string{"FOMOD_STORE": "sqlite"}, "unknown FOMOD_STORE"},
		{"redis without address", map[string]string{"FOMOD_STORE": "redis"}, "requires FOMOD_REDIS_ADDR"},
		{"bad level", map[string]string{"FOMOD_LOG_LEVEL": "loud"}, "FOMOD_LOG_LEVEL"},
		{"plugins without data dir", map[string]string{"FOMOD_PLUGINS_FILE": "plugins.txt"}, "requires FOMOD_DATA_DIR"},
		{"key not base64", map[string]string{"FOMOD_ENCRYPTION_KEY": "%%%"}, "not valid base64"},
		{"short key", map[string]string{"FOMOD_ENCRYPTION_KEY": "c2hvcnQ="}, "want a 32 byte key"},
		{"fallback without key", map[string]string{"FOMOD_ENCRYPTION_FALLBACK_KEYS": testKey}, "requires FOMOD_ENCRYPTION_KEY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// testKey is 32 zero bytes, base64 encoded.
const testKey = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

func TestEncryptionKeys(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	active, fallback, err := cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Nil(t, fallback)

	cfg, err = LoadFrom(map[string]string{
		"FOMOD_ENCRYPTION_KEY":           testKey,
		"FOMOD_ENCRYPTION_FALLBACK_KEYS": testKey + "," + testKey,
	})
	require.NoError(t, err)
	active, fallback, err = cfg.EncryptionKeys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 2)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("FOMOD_STORE", "File")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreFile, cfg.Store)
}
