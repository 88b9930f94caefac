// Package bootstrap initialises the process-wide runtime: tracing, the
// database and the optional Redis cache.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"mmorpgboard/internal/cache"
	"mmorpgboard/internal/config"
	"mmorpgboard/internal/database"
	"mmorpgboard/internal/middleware"
	"mmorpgboard/internal/observability"
	"mmorpgboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo data.
	SeedDemo bool
}

// Runtime holds the initialised shared resources.
type Runtime struct {
	DB              *gorm.DB
	Redis           *redis.Client
	ShutdownTracing func(context.Context) error
}

// InitRuntime sets up tracing, connects to the DB and Redis and optionally
// seeds demo data. Redis may end up nil when REDIS_URL is empty or
// unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.Logger = middleware.NewLogger(cfg.Env)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "mmorpg-board",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	if opts.SeedDemo && !cfg.IsProduction() {
		if err := seedIfEmpty(db); err != nil {
			_ = shutdown(context.Background())
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return &Runtime{DB: db, Redis: rdb, ShutdownTracing: shutdown}, nil
}

func seedIfEmpty(db *gorm.DB) error {
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}
	summary, err := seed.Seed(db, seed.Options{Users: 8, Posts: 30, RepliesPerPost: 3})
	if err != nil {
		return err
	}
	middleware.Logger.Info("demo data seeded",
		slog.Int("users", summary.Users),
		slog.Int("posts", summary.Posts),
		slog.Int("replies", summary.Replies),
	)
	return nil
}
