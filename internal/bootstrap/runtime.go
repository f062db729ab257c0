// Package bootstrap connects the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/observability"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedGroups bool
}

// Runtime bundles the connected dependencies and how to release them.
type Runtime struct {
	DB            *gorm.DB
	Redis         *redis.Client
	shutdownTrace func(context.Context) error
}

// InitRuntime installs the logger and tracer, connects to the database and Redis,
// and optionally seeds the built-in groups.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.Logger = middleware.NewLogger(cfg.Env)
	observability.Base = middleware.Logger

	shutdownTrace, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "yatube-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdownTrace(context.Background())
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)

	if opts.SeedGroups {
		if err := seed.Groups(db); err != nil {
			_ = shutdownTrace(context.Background())
			return nil, fmt.Errorf("failed to seed built-in groups: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: cache.GetClient(), shutdownTrace: shutdownTrace}, nil
}

// Close flushes pending spans. The server owns DB and Redis shutdown.
func (r *Runtime) Close(ctx context.Context) error {
	if r.shutdownTrace == nil {
		return nil
	}
	return r.shutdownTrace(ctx)
}
