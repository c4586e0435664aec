package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/BodyComp/internal/config"
	"github.com/JonMunkholm/BodyComp/internal/core"
	"github.com/JonMunkholm/BodyComp/internal/core/metrics" // Register all metrics
	"github.com/JonMunkholm/BodyComp/internal/logging"
	"github.com/JonMunkholm/BodyComp/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists. Variables already set in the
	// environment take precedence.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Ingest.DataDir,
		"system_dir", cfg.Ingest.SystemDir,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Apply configured generic ranges before serving
	if err := metrics.ApplyGenericEdges(
		cfg.Ranges.GenericBodyFat,
		cfg.Ranges.GenericMuscle,
		cfg.Ranges.GenericWater,
	); err != nil {
		slog.Error("invalid range configuration", "error", err, "code", core.MapError(err).Code)
		os.Exit(1)
	}

	for _, def := range core.All() {
		slog.Debug("metric registered", "kind", def.Kind, "field", def.Field)
	}
	slog.Info("metrics registered", "count", core.MetricCount())

	service := core.NewService(core.WithMaxFileSize(cfg.Ingest.MaxFileSize))
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
