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

	"github.com/barberscore/scoring-api/app"
	"github.com/barberscore/scoring-api/app/shared/observability"
	"github.com/barberscore/scoring-api/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize app", slog.Any("error", err))
		os.Exit(1)
	}

	if err := application.Queue.Start(ctx); err != nil {
		logger.Error("Failed to start job queue", slog.Any("error", err))
		os.Exit(1)
	}

	var metricsSrv *http.Server
	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", observability.Handler(application.Registry))
		metricsSrv = &http.Server{Addr: cfg.Observability.MetricsAddress, Handler: mux}
		go func() {
			logger.Info("Metrics server listening", slog.String("address", cfg.Observability.MetricsAddress))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", slog.Any("error", err))
			}
		}()
	}

	logger.Info("Application started")
	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", slog.Any("error", err))
		}
	}
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down gracefully")
}
