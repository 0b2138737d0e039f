// Package bootstrap opens the process-wide dependencies shared by the
// server and the maintenance commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"yourspace/internal/cache"
	"yourspace/internal/config"
	"yourspace/internal/database"
	"yourspace/internal/middleware"
	"yourspace/internal/observability"
	"yourspace/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// EnsureDemoAccount creates the demo account outside production.
	EnsureDemoAccount bool
}

// Runtime is what InitRuntime opened. Redis is nil when unreachable.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime starts tracing, connects to the database (applying the
// configured schema mode) and Redis, and optionally ensures demo data.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:    "yourspace-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSamplerRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := &Runtime{
		DB:              db,
		Redis:           cache.Connect(ctx, cfg.RedisURL),
		shutdownTracing: shutdownTracing,
	}

	if opts.EnsureDemoAccount && !cfg.IsProduction() {
		if _, err := seed.EnsureDemoAccount(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to ensure demo account: %w", err)
		}
	}

	return rt, nil
}

// Close flushes pending spans. The server closes DB and Redis itself.
func (r *Runtime) Close(ctx context.Context) {
	if r == nil || r.shutdownTracing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.shutdownTracing(ctx); err != nil {
		middleware.Logger.Warn("tracer shutdown failed", slog.String("error", err.Error()))
	}
}
