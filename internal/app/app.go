// Package app wires the route-feasibility engine together and manages its
// lifecycle.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/treklab/coasttrek/internal/controllers/restserver"
	"github.com/treklab/coasttrek/internal/log"
	"github.com/treklab/coasttrek/internal/planner"
	"github.com/treklab/coasttrek/internal/tide/noaa"
	"github.com/treklab/coasttrek/internal/tidecache"
	"github.com/treklab/coasttrek/internal/trail"
	"github.com/treklab/coasttrek/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	// Malformed trail reference data is fatal; the service refuses to
	// start serving requests.
	sections, err := trail.LoadSections(cfg.Sections)
	if err != nil {
		return fmt.Errorf("error loading trail reference data: %v", err)
	}

	store, err := openCacheStore(cfg.Cache)
	if err != nil {
		return fmt.Errorf("error opening tide cache: %v", err)
	}
	defer store.Close()

	fetcher := noaa.NewClient(
		cfg.Tides.BaseURL,
		timeoutOrDefault(cfg.Tides.TimeoutSeconds, 15*time.Second),
		retryPolicy(cfg.Tides),
		a.logger,
	)
	cache := tidecache.New(store, fetcher, a.logger)

	pl := planner.New(sections, cache, a.logger)

	rest, err := restserver.NewController(ctx, &wg, a.configProvider, cfg.Server, pl, a.logger)
	if err != nil {
		return err
	}
	if err := rest.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// openCacheStore selects the tide cache backend from configuration.
func openCacheStore(cfg config.CacheData) (tidecache.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return tidecache.NewMemoryStore(), nil
	case "sqlite":
		return tidecache.NewSQLiteStore(cfg.Path)
	case "timescaledb":
		return tidecache.NewPostgresStore(cfg.ConnectionString)
	}
	return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
}

func retryPolicy(cfg config.TideFetchData) noaa.RetryPolicy {
	policy := noaa.DefaultRetryPolicy
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelaySeconds > 0 {
		policy.BaseDelay = time.Duration(cfg.BaseDelaySeconds) * time.Second
	}
	if cfg.MaxDelaySeconds > 0 {
		policy.MaxDelay = time.Duration(cfg.MaxDelaySeconds) * time.Second
	}
	return policy
}

func timeoutOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
