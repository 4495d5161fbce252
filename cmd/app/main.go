package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meridwen/QuestBoard_Go/internal/config"
	"github.com/meridwen/QuestBoard_Go/internal/database"
	"github.com/meridwen/QuestBoard_Go/internal/database/jsonfile"
	"github.com/meridwen/QuestBoard_Go/internal/database/postgres"
	"github.com/meridwen/QuestBoard_Go/internal/event"
	"github.com/meridwen/QuestBoard_Go/internal/handler"
	"github.com/meridwen/QuestBoard_Go/internal/metrics"
	"github.com/meridwen/QuestBoard_Go/internal/quest"
	"github.com/meridwen/QuestBoard_Go/internal/repository"
	"github.com/meridwen/QuestBoard_Go/internal/server"
	"github.com/meridwen/QuestBoard_Go/internal/stats"
	"github.com/meridwen/QuestBoard_Go/internal/title"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	repo, pinger, cleanup, err := openStorage(cfg)
	if err != nil {
		slog.Error("Failed to open storage", "backend", cfg.Storage, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	detector, err := title.LoadDetector(cfg.SystemsPath)
	if err != nil {
		slog.Warn("Failed to load systems config, using defaults",
			"path", cfg.SystemsPath, "error", err)
		detector, err = title.NewDetector(title.DefaultSystems())
		if err != nil {
			slog.Error("Failed to build system detector", "error", err)
			os.Exit(1)
		}
	}

	bus := event.NewInMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		MaxRetries:     5,
		RetryDelay:     2 * time.Second,
		DeadLetterPath: cfg.DeadLetterPath,
	})

	questService := quest.NewService(repo, publisher, detector)
	statsService := stats.NewService(repo)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, pinger, questService, statsService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := questService.Shutdown(ctx); err != nil {
		slog.Error("Event drain failed", "error", err)
	}
}

// openStorage builds the quest repository for the configured backend. The
// returned cleanup releases the backend's resources.
func openStorage(cfg *config.Config) (repository.QuestRepository, handler.Pinger, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), 10, 30*time.Minute, time.Hour)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewQuestRepository(pool), pool, pool.Close, nil
	default:
		store, err := jsonfile.Open(cfg.DataPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, func() {}, nil
	}
}
