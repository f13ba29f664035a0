// Larder - Recipe Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/larder

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/larder/internal/api"
	"github.com/tomtom215/larder/internal/cache"
	"github.com/tomtom215/larder/internal/config"
	"github.com/tomtom215/larder/internal/logging"
	"github.com/tomtom215/larder/internal/metrics"
	"github.com/tomtom215/larder/internal/pipeline"
	"github.com/tomtom215/larder/internal/snapshot"
	"github.com/tomtom215/larder/internal/source"
	"github.com/tomtom215/larder/internal/supervisor"
	"github.com/tomtom215/larder/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("source", cfg.Source.Kind).
		Str("data_dir", cfg.Source.Dir).
		Str("database_url", logging.RedactDSN(cfg.Postgres.URL)).
		Bool("snapshots", cfg.Snapshot.Enabled).
		Dur("refresh_interval", cfg.Engine.RefreshInterval).
		Msg("Starting Larder with supervisor tree")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Larder exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshot store
	store, err := snapshot.Open(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	// Payload cache
	var payloadCache *cache.Cache
	if cfg.Cache.Enabled {
		payloadCache = cache.New(cfg.Cache.TTL)
		defer payloadCache.Close()
	}

	// Record source. A postgres source connects here; an unreachable database
	// is fatal because nothing could ever be served.
	src, err := source.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build %s source: %w", cfg.Source.Kind, err)
	}
	if closer, ok := src.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing source")
			}
		}()
	}

	runner, err := pipeline.NewRunnerFromConfig(cfg, src, store, payloadCache)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}
	defer runner.Close()

	// Serve the last good report until the startup run completes.
	if err := runner.Restore(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to restore report snapshot, starting empty")
	}

	// HTTP server
	handler := api.NewHandler(runner, payloadCache)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromAPI(cfg.API))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	// Supervisor tree
	treeConfig := supervisor.DefaultTreeConfig()
	if cfg.Server.ShutdownTimeout > 0 {
		treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout + 5*time.Second
	}
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerForComponent("supervisor", cfg.Logging.Level), treeConfig)
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// The startup run is a refresh-service run, so a source failure is
	// logged and the API still comes up.
	tree.AddPipelineService(services.NewRefreshService(runner, cfg.Engine.RefreshInterval, true))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return nil
}
