// Package bootstrap wires configuration into the planner service and its
// optional collaborators for the command binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/supplyplan/internal/cache"
	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/repository"
	"github.com/andresuchdata/supplyplan/internal/repository/postgres"
	"github.com/andresuchdata/supplyplan/internal/service"
	"github.com/andresuchdata/supplyplan/internal/storage"
)

type App struct {
	Config  *config.Config
	Planner *service.PlannerService
	Runs    repository.RunRepository

	db *postgres.DB
}

// New builds the planner. Redis and Postgres are only contacted when enabled;
// a failing cache degrades to the noop cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("result cache unavailable, continuing without cache")
		resultCache = cache.NewNoopResultCache()
	}

	if cfg.Database.Enabled {
		db, err := postgres.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db

		runs := postgres.NewRunRepository(db)
		if err := runs.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		app.Runs = runs
	}

	app.Planner = service.NewPlannerService(service.NewEngine(cfg.Planner), resultCache, app.Runs)
	return app, nil
}

// ObjectStorage returns the configured bucket client, or nil when no bucket is set.
func (a *App) ObjectStorage() (storage.ObjectStorage, error) {
	sc := a.Config.Storage
	if sc.Bucket == "" || sc.Endpoint == "" {
		return nil, nil
	}
	client, err := storage.NewMinioClient(storage.Config{
		Endpoint:  sc.Endpoint,
		AccessKey: sc.AccessKey,
		SecretKey: sc.SecretKey,
		Bucket:    sc.Bucket,
		Region:    sc.Region,
		UseSSL:    sc.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
}
