// Command server runs the AutoMarketer dashboard.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/backend"
	"github.com/jimdaga/automarketer/internal/config"
	"github.com/jimdaga/automarketer/internal/dashboard"
	"github.com/jimdaga/automarketer/internal/logging"
	"github.com/jimdaga/automarketer/internal/server"
	"github.com/jimdaga/automarketer/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := backend.NewClient(cfg.BackendURL, nil, logger)
	if err != nil {
		logger.Error("Invalid backend URL", "error", err)
		os.Exit(1)
	}
	if err := client.Health(context.Background()); err != nil {
		logger.Warn("Backend is not reachable yet", "url", client.BaseURL(), "error", err)
	}

	registry := dashboard.NewRegistry(client, cfg.ViewIdleTTL, logger)
	router, err := web.NewServer(dashboard.NewAuth(client, logger), registry, logger).Router(web.Options{
		SessionSecret: cfg.SessionSecret,
		SecureCookies: cfg.IsProduction(),
	})
	if err != nil {
		logger.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go registry.Run(sweepCtx, cfg.ViewSweep)

	srv := server.New(router, ":"+cfg.Port, server.Options{ShutdownTimeout: cfg.ShutdownTimeout}, logger)
	srv.OnShutdown("workspace sweeper", func(context.Context) error {
		stopSweep()
		return nil
	})

	logger.Info("Starting dashboard", "port", cfg.Port, "backend", client.BaseURL(), "env", cfg.Env)
	if err := srv.Run(context.Background()); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
