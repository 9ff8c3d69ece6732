// Package bootstrap wires the process-wide dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sharehub/internal/cache"
	"sharehub/internal/config"
	"sharehub/internal/database"
	"sharehub/internal/middleware"
	"sharehub/internal/models"
	"sharehub/internal/repository"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipSchema connects without applying DB_SCHEMA_MODE.
	SkipSchema bool
	// SkipRedis leaves the cache disabled.
	SkipRedis bool
}

// Runtime holds the connections opened by InitRuntime.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects to the DB and Redis and, in development, makes sure the
// configured admin profile exists.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	connCfg := *cfg
	if opts.SkipSchema {
		connCfg.DBSchemaMode = database.SchemaModeOff
	}

	db, err := database.Connect(ctx, &connCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
	}
	rt := &Runtime{DB: db, Redis: cache.GetClient()}

	if !opts.SkipSchema {
		if err := ensureDevAdmin(ctx, cfg, db); err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
		}
	}

	return rt, nil
}

// Close releases the DB pool and the Redis client.
func (r *Runtime) Close() error {
	return errors.Join(database.Close(r.DB), cache.Close())
}

// ensureDevAdmin creates or promotes the DEV_ADMIN_ID profile. Profiles are
// normally created by the auth backend, so this only runs in development.
func ensureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || cfg.DevAdminID == "" {
		return nil
	}

	username := strings.TrimSpace(strings.ToLower(cfg.DevAdminUsername))
	if username == "" {
		username = "dev_admin"
	}

	profiles := repository.NewProfileRepository(db)
	_, err := profiles.GetByID(ctx, cfg.DevAdminID)
	switch {
	case repository.IsNotFound(err):
		p := &models.Profile{ID: cfg.DevAdminID, Username: username, DisplayName: username}
		if err := profiles.Upsert(ctx, p); err != nil {
			return fmt.Errorf("create admin profile: %w", err)
		}
	case err != nil:
		return err
	}

	if err := profiles.SetAdmin(ctx, cfg.DevAdminID, true); err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "development admin ensured", slog.String("profile_id", cfg.DevAdminID))
	return nil
}
