package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/fomod/internal/config"
	"github.com/aretw0/fomod/internal/logging"
	"github.com/aretw0/fomod/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP runs the MCP server on the chosen transport. Sessions live in the
// configured store, so an agent can hand a session over to the HTTP API.
func ServeMCP(ctx context.Context, cfg config.Config, transport, baseURL string) error {
	logger := logging.New(cfg.Level())
	files, err := createOracle(cfg.DataDir, cfg.PluginsFile)
	if err != nil {
		return err
	}
	sessions, closeStore, err := openSessions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(createEngine(EngineOptions{}, files, logger), sessions, mcp.WithLogger(logger))

	switch transport {
	case TransportStdio:
		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		logger.Info("Starting fomod MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		if baseURL == "" {
			baseURL = "http://localhost" + cfg.HTTPAddr
		}
		err := srv.ServeSSE(ctx, cfg.HTTPAddr, baseURL)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
	}
}
