package main

import (
	"testing"

	"github.com/aretw0/fomod/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().Bool("metrics", false, "")
	addServiceFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FOMOD_HTTP_ADDR", ":9000")
	t.Setenv("FOMOD_STORE", "file")

	cfg, err := loadConfig(newServiceCommand(t, "--addr", ":7000", "--metrics"))
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, config.StoreFile, cfg.Store)
	assert.True(t, cfg.Metrics)
}

func TestLoadConfig_RedisAddrImpliesRedis(t *testing.T) {
	cfg, err := loadConfig(newServiceCommand(t, "--redis-addr", "localhost:6379"))
	require.NoError(t, err)
	assert.Equal(t, config.StoreRedis, cfg.Store)
}

func TestLoadConfig_InvalidStore(t *testing.T) {
	_, err := loadConfig(newServiceCommand(t, "--store", "postgres"))
	assert.Error(t, err)
}
