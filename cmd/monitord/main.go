package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hendrikb/pipeline-monitor/internal/common"
	"github.com/hendrikb/pipeline-monitor/internal/export"
	"github.com/hendrikb/pipeline-monitor/internal/logstream"
	"github.com/hendrikb/pipeline-monitor/internal/pipeline"
	"github.com/hendrikb/pipeline-monitor/internal/repository"
	"github.com/hendrikb/pipeline-monitor/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, driver, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Store.DSN,
		DialTimeout: cfg.Store.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening transactions store", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	repo := repository.NewTransactionRepository(db, driver, logger)
	if err := repo.Init(ctx); err != nil {
		logger.Error("initializing transactions store", "error", err)
		os.Exit(1)
	}

	feed := logstream.NewFeed(logger)
	svc := server.NewService(cfg, logger, pipeline.DefaultStageSet(), feed, repo, export.NewService(repo, logger))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: svc.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
