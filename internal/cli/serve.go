package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/fomod/internal/config"
	"github.com/aretw0/fomod/internal/logging"
	httpAdapter "github.com/aretw0/fomod/pkg/adapters/http"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/observability"
	"github.com/go-chi/chi/v5"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown.
const shutdownTimeout = 5 * time.Second

// newServiceHandler assembles the HTTP API, mounting /metrics when enabled.
func newServiceHandler(ctx context.Context, cfg config.Config) (http.Handler, func() error, error) {
	logger := logging.New(cfg.Level())
	files, err := createOracle(cfg.DataDir, cfg.PluginsFile)
	if err != nil {
		return nil, nil, err
	}

	var hooks []domain.LifecycleHooks
	var metrics *observability.Metrics
	if cfg.Metrics {
		metrics = observability.NewMetrics()
		hooks = append(hooks, metrics.Hooks())
	}
	eng := createEngine(EngineOptions{Hooks: hooks}, files, logger)

	sessions, closeStore, err := openSessions(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	r := chi.NewRouter()
	if metrics != nil {
		r.Handle(cfg.MetricsPath, metrics.Handler())
	}
	r.Mount("/", httpAdapter.NewHandler(eng, sessions, httpAdapter.WithLogger(logger)))
	return r, closeStore, nil
}

// Serve runs the HTTP API until ctx is done.
func Serve(ctx context.Context, cfg config.Config) error {
	handler, closeStore, err := newServiceHandler(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logger := logging.New(cfg.Level())
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting fomod server", "addr", srv.Addr, "store", cfg.Store, "metrics", cfg.Metrics)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("fomod server stopped gracefully")
		return nil
	}
}
