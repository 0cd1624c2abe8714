package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/fomod/internal/config"
	"github.com/aretw0/fomod/pkg/adapters/file"
	"github.com/aretw0/fomod/pkg/adapters/memory"
	"github.com/aretw0/fomod/pkg/adapters/redis"
	"github.com/aretw0/fomod/pkg/persistence/middleware"
	"github.com/aretw0/fomod/pkg/session"
)

// openSessions builds the session manager for the configured backend. The
// returned close function releases backend connections.
func openSessions(ctx context.Context, cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	noop := func() error { return nil }
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.LockTTL),
	}

	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, nil, err
	}
	var mws []middleware.Middleware
	if active != nil {
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: active, FallbackKeys: fallback})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Session encryption at rest enabled", "fallback_keys", len(fallback))
		mws = append(mws, mw)
	}

	switch cfg.Store {
	case config.StoreFile:
		logger.Info("Using file session store", "dir", cfg.SessionDir)
		return session.NewManager(middleware.Chain(file.New(cfg.SessionDir), mws...), opts...), noop, nil

	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.SessionTTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("Using redis session store", "addr", cfg.RedisAddr, "prefix", cfg.RedisPrefix)
		opts = append(opts, session.WithLocker(redis.NewLocker(store.Client(), cfg.RedisPrefix)))
		return session.NewManager(middleware.Chain(store, mws...), opts...), store.Close, nil

	default:
		logger.Info("Using in-memory session store")
		return session.NewManager(middleware.Chain(memory.NewStore(), mws...), opts...), noop, nil
	}
}
