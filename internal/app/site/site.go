// Package site assembles the gateway: config, cache backend, API
// client, services, routes and the HTTP server lifecycle.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/catalog"
	"github.com/Acode-Foundation/acode-site/internal/config"
	"github.com/Acode-Foundation/acode-site/internal/query"
	"github.com/Acode-Foundation/acode-site/internal/resources"
)

// App is the assembled gateway.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  io.Closer
}

// New wires the gateway from config. The cache backend is selected
// here: memory for a single instance, redis when instances must share.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	var store query.Store
	var closer io.Closer

	switch cfg.Backend {
	case "redis":
		redisStore, err := query.NewRedisStore(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("app.site.New: %w", err)
		}
		store, closer = redisStore, redisStore
	case "memory", "":
		memStore := query.NewMemoryStore()
		store, closer = memStore, memStore
	default:
		return nil, fmt.Errorf("app.site.New: unknown cache backend %q", cfg.Backend)
	}

	apiClient := api.NewClient(cfg.BaseURL, cfg.RemoteAPI.Timeout)

	cache := query.New(store, logger,
		query.WithTransient(api.IsTransient),
		query.WithMetrics(query.NewMetrics(prometheus.DefaultRegisterer)),
	)

	service := resources.New(apiClient, cache, resources.NewLogNotifier(logger), logger)

	source := catalog.NewResilient(
		catalog.NewRemoteSource(apiClient),
		catalog.NewStaticSource(catalog.FallbackPlugins()),
		logger,
	)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, apiClient, service, source)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  closer,
	}, nil
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.store.Close(); closeErr != nil {
			a.logger.Error("failed to close cache store", slog.Any("err", closeErr))
		}
		return err
	}
}
