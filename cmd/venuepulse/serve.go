package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/venuepulse/internal/config"
	"github.com/sawpanic/venuepulse/internal/data/cache"
	httpiface "github.com/sawpanic/venuepulse/internal/interfaces/http"
	"github.com/sawpanic/venuepulse/internal/persistence"
	"github.com/sawpanic/venuepulse/internal/persistence/postgres"
	"github.com/sawpanic/venuepulse/internal/pipeline"
	"github.com/sawpanic/venuepulse/internal/providers/market"
	"github.com/sawpanic/venuepulse/internal/providers/venues"
	"github.com/sawpanic/venuepulse/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the refresh loop and HTTP server",
		Long:  "Refreshes the sensor roster on an interval and serves the latest snapshot, history, metrics, and a websocket stream.",
		RunE:  runServe,
	}
}

// app bundles the wired components for one process.
type app struct {
	refresher *scheduler.Refresher
	repo      persistence.SnapshotRepo
	hub       *httpiface.Hub
	metrics   *httpiface.Metrics
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := buildApp(cfg)

	serverCfg := httpiface.DefaultServerConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	srv := httpiface.NewServer(serverCfg, a.refresher, a.repo, a.hub, a.metrics)

	refreshDone := make(chan error, 1)
	go func() { refreshDone <- a.refresher.Run(ctx) }()

	if err := srv.ListenAndServe(ctx); err != nil && err != context.Canceled {
		return err
	}
	if err := <-refreshDone; err != nil && err != context.Canceled {
		return err
	}
	log.Info().Msg("shutdown complete")
	return nil
}

func buildApp(cfg *config.Config) *app {
	c := cache.NewAuto(cfg.Providers.RedisAddr)

	venueClient := venues.NewClient(venues.DefaultClientConfig(cfg.Providers.VenuesURL), c)
	marketClient := market.NewClient(market.DefaultClientConfig(cfg.Providers.MarketURL), c)

	var repo persistence.SnapshotRepo
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(cfg.PostgresDSN)
		if err != nil {
			log.Warn().Err(err).Msg("postgres unavailable, history disabled")
		} else {
			repo = postgres.NewSnapshotRepo(db, 5*time.Second)
		}
	}

	var history pipeline.HistorySource
	if repo != nil {
		history = repo
	}

	runner := pipeline.NewRunner(venueClient, marketClient, history)
	hub := httpiface.NewHub()
	metrics := httpiface.NewMetrics()

	return &app{
		refresher: scheduler.New(runner, cfg, repo, hub, metrics),
		repo:      repo,
		hub:       hub,
		metrics:   metrics,
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
