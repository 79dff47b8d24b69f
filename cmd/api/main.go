package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/app"
	"github.com/riskibarqy/fantasy-cycling/internal/config"
	"github.com/riskibarqy/fantasy-cycling/internal/observability"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(ctx, cfg, logger)
	if err != nil {
		logger.Error("start telemetry", "error", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	srv := application.Server
	if application.Scheduler != nil {
		application.Scheduler.Start()
	}

	go func() {
		logger.Info("http server starting",
			"addr", cfg.HTTPAddr,
			"storage", cfg.StorageDriver,
			"race_key", cfg.RaceKey,
			"pcs_enabled", cfg.PCSEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	exitCode := 0
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error("close app", "error", err)
		exitCode = 1
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("stop telemetry", "error", err)
	}

	logger.Info("http server stopped")
	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
}
