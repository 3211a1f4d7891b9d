// Package control wires the service components together and owns their lifecycle.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vietddude/echoscribe/internal/ai"
	"github.com/vietddude/echoscribe/internal/core/config"
	"github.com/vietddude/echoscribe/internal/core/retry"
	"github.com/vietddude/echoscribe/internal/health"
	redisclient "github.com/vietddude/echoscribe/internal/infra/redis"
	"github.com/vietddude/echoscribe/internal/server"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 15 * time.Second

// App is the main application struct that manages the service lifecycle.
type App struct {
	cfg         *config.Settings
	service     *ai.Service
	healthMon   *health.Monitor
	server      *server.Server
	redisClient *redisclient.Client
	log         *slog.Logger
}

// NewApp creates a new App with all dependencies initialized. cfg must already
// have passed startup validation (or the continue policy must be in effect).
func NewApp(cfg *config.Settings, log *slog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil settings")
	}
	if log == nil {
		log = slog.Default()
	}

	app := &App{cfg: cfg, log: log.With("component", "app")}

	// 1. Result cache (optional)
	var cache ai.ResultCache
	var pinger health.Pinger
	if cfg.Redis.URL != "" && cfg.Redis.Enabled {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			app.log.Warn("Result caching disabled", "error", err)
		} else {
			app.redisClient = client
			cache = client
			pinger = client
			app.log.Info("Using Redis result cache", "prefix", cfg.Redis.Prefix, "ttl", cfg.Redis.TTL())
		}
	}

	// 2. Analysis service
	exec := retry.NewExecutor(log)
	app.service = ai.NewService(cfg, ai.PlaceholderBackend{}, exec, cache, log)

	// 3. Health and HTTP
	app.healthMon = health.NewMonitor(cfg, config.NewValidator(log), pinger, log)
	app.server = server.New(cfg, app.service, app.healthMon, log)

	return app, nil
}

// Addr returns the HTTP listen address.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.healthMon.Start(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop stops the HTTP server and releases the cache connection.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping service...")

	var errs []error
	if err := a.server.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop http server: %w", err))
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
		a.redisClient = nil
	}

	return errors.Join(errs...)
}
