package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/fomod"
	fsoracle "github.com/aretw0/fomod/pkg/adapters/fs"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/observability"
	"github.com/aretw0/fomod/pkg/ports"
)

// EngineOptions are the inputs shared by every command that builds an engine.
type EngineOptions struct {
	// DataDir is the game data directory answering file dependencies.
	DataDir string
	// PluginsFile lists the active plugins (plugins.txt format).
	PluginsFile string
	// Debug logs every lifecycle event.
	Debug bool
	// Hooks are attached in addition to the debug hooks.
	Hooks []domain.LifecycleHooks
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(opts EngineOptions, files ports.FileOracle, logger *slog.Logger) *fomod.Engine {
	engineOpts := []fomod.Option{fomod.WithLogger(logger)}

	hooks := opts.Hooks
	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, fomod.WithLifecycleHooks(observability.Combine(hooks...)))
	}
	if files != nil {
		engineOpts = append(engineOpts, fomod.WithFileOracle(files))
	}
	return fomod.New(engineOpts...)
}

// createOracle builds the file oracle from a data directory and an optional
// plugin list. It returns nil when no data directory is given.
func createOracle(dataDir, pluginsFile string) (ports.FileOracle, error) {
	if dataDir == "" {
		if pluginsFile != "" {
			return nil, fmt.Errorf("--plugins requires --data-dir")
		}
		return nil, nil
	}
	info, err := os.Stat(dataDir)
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dataDir)
	}

	var active []string
	if pluginsFile != "" {
		f, err := os.Open(pluginsFile)
		if err != nil {
			return nil, fmt.Errorf("plugin list: %w", err)
		}
		defer f.Close()
		active, err = fsoracle.ReadPlugins(f)
		if err != nil {
			return nil, err
		}
	}

	oracle, err := fsoracle.New(os.DirFS(dataDir), active)
	if err != nil {
		return nil, err
	}
	return oracle, nil
}
