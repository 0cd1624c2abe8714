package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/fomod/internal/cli"
	"github.com/aretw0/fomod/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves wizard sessions over a JSON API. Sessions live in the configured store
(memory, file or redis), so any replica can answer any request.

Settings come from FOMOD_* environment variables; flags override them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Create a context that cancels on interrupt signal
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServiceFlags(serveCmd)
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics")
}

// addServiceFlags registers the flags shared by the long running commands.
func addServiceFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "Listen address (FOMOD_HTTP_ADDR)")
	cmd.Flags().String("store", "", "Session store: memory, file or redis (FOMOD_STORE)")
	cmd.Flags().String("redis-addr", "", "Redis address (FOMOD_REDIS_ADDR)")
	cmd.Flags().String("data-dir", "", "Game data directory (FOMOD_DATA_DIR)")
	cmd.Flags().String("plugins", "", "Active plugin list (FOMOD_PLUGINS_FILE)")
}

// loadConfig reads the environment and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("addr", &cfg.HTTPAddr)
	str("redis-addr", &cfg.RedisAddr)
	str("data-dir", &cfg.DataDir)
	str("plugins", &cfg.PluginsFile)
	str("log-level", &cfg.LogLevel)
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	} else if flags.Changed("redis-addr") {
		cfg.Store = config.StoreRedis
	}
	if flags.Lookup("metrics") != nil && flags.Changed("metrics") {
		cfg.Metrics, _ = flags.GetBool("metrics")
	}
	return cfg, cfg.Validate()
}
