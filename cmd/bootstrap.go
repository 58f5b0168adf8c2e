package cmd

import (
	"fmt"
	"time"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
	"vinyl-scout/core/config"
	"vinyl-scout/core/database"
	"vinyl-scout/core/logger"
	"vinyl-scout/core/ratelimit"
	"vinyl-scout/feature/library"
	"vinyl-scout/feature/search"

	"go.uber.org/zap"
)

// app is the wired application core shared by every command: config, logger,
// the breaker-wrapped catalog client, and the two feature services.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  catalog.Client
	library *library.Service
	search  *search.Service
}

// newApp loads configuration and wires the full dependency graph. Every
// command goes through here so a one-shot CLI call behaves exactly like the
// server: same rate limiter, same caches, same local store.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	repo := library.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}

	limiter := ratelimit.NewFromQuota(cfg.Catalog.QuotaPerMinute, cfg.Catalog.Burst)
	client := catalog.NewBreakerClient(catalog.NewHTTPClient(cfg.Catalog, limiter, logg), logg)

	statusStore := cache.New[catalog.CollectionStatus]("status", cfg.Cache.StatusTTL())

	return &app{
		cfg:     cfg,
		logger:  logg,
		client:  client,
		library: library.NewService(client, repo, statusStore, cfg.Catalog.Username, cfg.Sync, logg),
		search:  search.NewService(client, cfg.Cache),
	}, nil
}

// close flushes pending work: background verifications first, then the log
// buffers.
func (a *app) close() {
	done := make(chan struct{})
	go func() {
		a.library.Drain()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		a.logger.Warn("Timed out waiting for background verifications")
	}
	_ = a.logger.Sync()
}
