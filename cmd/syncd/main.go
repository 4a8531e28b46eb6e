package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soldesk/streamsync/internal/app"
	"github.com/soldesk/streamsync/internal/config"
	"github.com/soldesk/streamsync/internal/journal"
	"github.com/soldesk/streamsync/internal/server"
	"github.com/soldesk/streamsync/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncd.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a := app.New(cfg, logger)

	// The journal subscribes to the store before any channel opens so it
	// sees every incremental event of the session.
	var jnl *journal.Journal
	if cfg.Journal.DSN != "" {
		jnl, err = journal.Open(ctx, journal.Config{
			DSN:           cfg.Journal.DSN,
			BatchSize:     cfg.Journal.BatchSize,
			FlushInterval: cfg.Journal.FlushInterval,
		}, a.Store, logger)
		if err != nil {
			logger.Error("failed to open journal", "error", err)
			os.Exit(1)
		}
		jnl.Start(ctx)
	}

	a.Init(ctx)

	api := server.New(server.Config{
		Port:  cfg.HTTP.Port,
		Debug: *debug,
	}, a.Store, a.Registry, logger)
	api.Start()

	<-ctx.Done()

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := api.Stop(shutdownCtx); err != nil {
		logger.Warn("read api shutdown", "error", err)
	}
	a.Teardown()
	if jnl != nil {
		jnl.Stop(shutdownCtx)
	}

	logger.Info("syncd stopped")
}
