// Package bootstrap wires process-wide infrastructure: the database, the
// cache, tracing and optional development seeding.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"postboard/internal/auth"
	"postboard/internal/cache"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/middleware"
	"postboard/internal/observability"
	"postboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs migrations according to DB_SCHEMA_MODE.
	ApplySchema bool
	// SeedPreset, when set, seeds an empty development database.
	SeedPreset string
}

// InitRuntime connects to the database and Redis, applies the schema and
// optionally seeds. A nil Redis client means the cache is disabled.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	if cfg.RedisURL != "" {
		cache.InitRedis(cfg.RedisURL)
	}
	r := cache.GetClient()

	if opts.SeedPreset != "" {
		if err := seedDevelopment(ctx, cfg, db, opts.SeedPreset); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("seed %s: %w", opts.SeedPreset, err)
		}
	}

	return db, r, nil
}

// InitTracing configures the global tracer from cfg.
func InitTracing(cfg *config.Config) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:  "postboard-api",
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
}

// seedDevelopment fills an empty database. Populated databases and
// non-development environments are left alone.
func seedDevelopment(ctx context.Context, cfg *config.Config, db *gorm.DB, presetName string) error {
	if !strings.EqualFold(cfg.Env, "development") {
		middleware.Logger.Warn("skipping seed outside development", slog.String("env", cfg.Env))
		return nil
	}

	counts, err := seed.CountRows(ctx, db)
	if err != nil {
		return err
	}
	if counts["users"] > 0 {
		middleware.Logger.Info("database already populated, skipping seed",
			slog.Int64("users", counts["users"]))
		return nil
	}

	preset, err := seed.LookupPreset(presetName)
	if err != nil {
		return err
	}
	creds := auth.NewCredentials(cfg.JWTSecret, cfg.TokenTTL(), cfg.BcryptCost)
	_, err = seed.NewSeeder(db, creds, 1).Run(ctx, preset)
	return err
}
