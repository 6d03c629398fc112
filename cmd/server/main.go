// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/forkrank/internal/api"
	"github.com/tomtom215/forkrank/internal/config"
	"github.com/tomtom215/forkrank/internal/crowdbt"
	"github.com/tomtom215/forkrank/internal/database"
	"github.com/tomtom215/forkrank/internal/logging"
	"github.com/tomtom215/forkrank/internal/ranking"
	"github.com/tomtom215/forkrank/internal/supervisor"
	"github.com/tomtom215/forkrank/internal/supervisor/services"
	ws "github.com/tomtom215/forkrank/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// snapshotGCInterval and snapshotGCDiscardRatio tune BadgerDB value log GC.
const (
	snapshotGCInterval     = 10 * time.Minute
	snapshotGCDiscardRatio = 0.5
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("snapshots", cfg.Snapshot.Enabled).
		Bool("events", cfg.Events.Enabled).
		Msg("Starting Forkrank with supervisor tree")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Database.SeedCatalog {
		inserted, err := db.SeedCatalog(context.Background(), database.DefaultCatalog())
		if err != nil {
			// Close database before fatal exit to ensure defer runs
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing database")
			}
			logging.Fatal().Err(err).Msg("Failed to seed restaurant catalog")
		}
		logging.Info().Int("inserted", inserted).Msg("Restaurant catalog seeded")
	}

	rankingService, err := ranking.NewService(db, rankingConfig(&cfg.Ranking))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create ranking service")
	}

	snapStore, err := initSnapshots(cfg, rankingService)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	if snapStore != nil {
		defer func() {
			if err := snapStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot store")
			}
		}()
	}

	wsHub := ws.NewHub()

	pipeline, err := initEvents(cfg, rankingService, snapStore, wsHub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event pipeline")
	}
	if pipeline != nil {
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Events.CloseTimeout)
			defer cancel()
			if err := pipeline.Close(closeCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing event pipeline")
			}
		}()
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(rankingService, db, wsHub, cfg.Security.CORSOrigins)
	handler.SetVersion(version)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	if cfg.Reconcile.Interval > 0 {
		tree.AddDataService(services.NewReconcileService(rankingService, wsHub, services.ReconcileServiceConfig{
			OnStartup: cfg.Reconcile.OnStartup,
			Interval:  cfg.Reconcile.Interval,
		}, logging.WithComponent("reconcile")))
		logging.Info().Dur("interval", cfg.Reconcile.Interval).Msg("Reconcile service added to supervisor tree")
	}
	if snapStore != nil {
		tree.AddDataService(services.NewSnapshotGCService(snapStore, snapshotGCInterval, snapshotGCDiscardRatio, logging.WithComponent("snapshot-gc")))
	}

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	if pipeline != nil {
		tree.AddMessagingService(services.NewEventPipelineService(pipeline, cfg.Events.CloseTimeout))
		logging.Info().Msg("Event pipeline added to supervisor tree")
	}

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
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

	// Wait for the error channel to close (supervisor finished)
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

	logging.Info().Msg("Application stopped gracefully")
}

// rankingConfig maps the ranking section onto the service configuration.
func rankingConfig(cfg *config.RankingConfig) ranking.Config {
	return ranking.Config{
		Params: crowdbt.Params{
			Beta:  cfg.Beta,
			Gamma: cfg.Gamma,
		},
		PersonalBaseline:        cfg.PersonalBaseline,
		ExploreTriedProbability: cfg.ExploreTriedProbability,
		RecommendationLimit:     cfg.RecommendationLimit,
		RandomSeed:              cfg.RandomSeed,
	}
}
