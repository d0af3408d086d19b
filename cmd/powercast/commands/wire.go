package commands

import (
	"context"
	"fmt"

	"github.com/jugesdebnath7/powercast/internal/inference"
	"github.com/jugesdebnath7/powercast/internal/model"
	"github.com/jugesdebnath7/powercast/internal/pipeline"
	"github.com/jugesdebnath7/powercast/internal/store"
	"github.com/jugesdebnath7/powercast/pkg/cache"
	"github.com/jugesdebnath7/powercast/pkg/config"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// app holds the wired collaborators shared by the serve and predict
// commands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *store.DB
	cacheConn *cache.Client
	respCache *cache.Cache
	service   *inference.Service
}

// buildApp wires the pipeline, model and optional database and cache
// into an inference service.
func buildApp(cfg *config.Config, log *logger.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	predictor, err := model.Load(cfg.Model.ArtifactDir, cfg.Pipeline.Version, log)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	var opts []inference.Option

	if cfg.Database.Enabled() {
		db, err := store.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db

		repo := store.NewRepository(db, log)
		if err := repo.Migrate(context.Background()); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		opts = append(opts, inference.WithRepository(repo))
		log.Info("Connected to database")
	}

	conn, err := cache.New(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.cacheConn = conn
	if conn.Enabled() {
		a.respCache = cache.NewCache(conn, "powercast")
		opts = append(opts, inference.WithCache(a.respCache, cfg.API.CacheTTL))
		log.Info("Connected to redis")
	}

	p := pipeline.New(cfg, log)
	a.service = inference.New(p, predictor, cfg.Pipeline.Version, log, opts...)
	return a, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.cacheConn != nil {
		a.cacheConn.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
