// Package config loads service settings for the fomod binaries from the
// environment.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/fomod/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the settings shared by `fomod serve` and `fomod mcp`.
type Config struct {
	HTTPAddr string `env:"FOMOD_HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"FOMOD_LOG_LEVEL" envDefault:"info"`

	Metrics     bool   `env:"FOMOD_METRICS"      envDefault:"false"`
	MetricsPath string `env:"FOMOD_METRICS_PATH" envDefault:"/metrics"`

	// Store selects the session backend: memory, file or redis.
	// It defaults to redis when FOMOD_REDIS_ADDR is set.
	Store      string        `env:"FOMOD_STORE"`
	SessionDir string        `env:"FOMOD_SESSION_DIR"  envDefault:".fomod/sessions"`
	SessionTTL time.Duration `env:"FOMOD_SESSION_TTL"  envDefault:"24h"`
	LockTTL    time.Duration `env:"FOMOD_LOCK_TTL"     envDefault:"30s"`

	RedisAddr     string `env:"FOMOD_REDIS_ADDR"`
	RedisPassword string `env:"FOMOD_REDIS_PASSWORD"`
	RedisDB       int    `env:"FOMOD_REDIS_DB"     envDefault:"0"`
	RedisPrefix   string `env:"FOMOD_REDIS_PREFIX" envDefault:"fomod:session:"`

	// EncryptionKey turns on encryption at rest for stored sessions. It is a
	// base64 AES-256 key; fallback keys still decrypt sessions sealed before
	// a rotation.
	EncryptionKey          string   `env:"FOMOD_ENCRYPTION_KEY"`
	EncryptionFallbackKeys []string `env:"FOMOD_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`

	// DataDir and PluginsFile feed file dependencies. Without DataDir every
	// file reads as missing.
	DataDir     string `env:"FOMOD_DATA_DIR"`
	PluginsFile string `env:"FOMOD_PLUGINS_FILE"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from an explicit environment, ignoring
// the process one.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Store == "" {
		cfg.Store = StoreMemory
		if cfg.RedisAddr != "" {
			cfg.Store = StoreRedis
		}
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("FOMOD_STORE=redis requires FOMOD_REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown FOMOD_STORE %q (want memory, file or redis)", c.Store)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("FOMOD_LOG_LEVEL: %w", err)
	}
	if c.PluginsFile != "" && c.DataDir == "" {
		return fmt.Errorf("FOMOD_PLUGINS_FILE requires FOMOD_DATA_DIR")
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeys decodes the encryption keys. A nil active key means
// sessions are stored in the clear.
func (c Config) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.EncryptionFallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("FOMOD_ENCRYPTION_FALLBACK_KEYS requires FOMOD_ENCRYPTION_KEY")
		}
		return nil, nil, nil
	}
	active, err = decodeKey(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("FOMOD_ENCRYPTION_KEY: %w", err)
	}
	for i, k := range c.EncryptionFallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("FOMOD_ENCRYPTION_FALLBACK_KEYS[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("want a 32 byte key, got %d bytes", len(key))
	}
	return key, nil
}

// Level returns the parsed log level.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
