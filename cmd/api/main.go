// Command api runs the AutoMarketer reference backend.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jimdaga/automarketer/internal/api"
	"github.com/jimdaga/automarketer/internal/config"
	"github.com/jimdaga/automarketer/internal/database"
	"github.com/jimdaga/automarketer/internal/events"
	"github.com/jimdaga/automarketer/internal/generator"
	"github.com/jimdaga/automarketer/internal/logging"
	"github.com/jimdaga/automarketer/internal/prompts"
	"github.com/jimdaga/automarketer/internal/providers"
	"github.com/jimdaga/automarketer/internal/server"
	"golang.org/x/time/rate"
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

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	if cfg.SeedDevData && !cfg.IsProduction() {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("Failed to seed development data", "error", err)
		}
	}

	registry, err := prompts.NewDefaultRegistry()
	if err != nil {
		logger.Error("Failed to load prompt catalog", "error", err)
		os.Exit(1)
	}

	var gen generator.Generator = generator.NewTemplateGenerator(registry)
	if cfg.GeneratorURL != "" {
		gen = generator.NewWebhookGenerator(cfg.GeneratorURL, cfg.GeneratorSecret, cfg.GeneratorTimeout, registry, gen, logger)
		logger.Info("Using generation service", "url", cfg.GeneratorURL)
	}

	// One limiter paces every outbound provider call.
	opts := providers.Options{
		HTTPClient: providers.NewHTTPClient(),
		Limiter:    rate.NewLimiter(rate.Limit(cfg.ProviderRPS), cfg.ProviderBurst),
	}

	deps := api.Deps{
		DB:        db,
		Generator: gen,
		Social:    providers.NewAyrshare(cfg.AyrshareURL, cfg.AyrshareAPIKey, opts),
		Email:     providers.NewBrevo(cfg.BrevoURL, cfg.BrevoAPIKey, cfg.EmailSender, opts),
		Blog:      providers.NewBlogger(cfg.BloggerURL, cfg.BloggerBlogID, cfg.BloggerAPIKey, opts),
		Logger:    logger,
	}

	var publisher *events.Publisher
	if cfg.RedisURL != "" {
		publisher, err = events.NewPublisher(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to configure event publisher", "error", err)
			os.Exit(1)
		}
		deps.Events = publisher
	}

	router := api.NewRouter(api.New(deps), cfg.AllowedOrigins(), logger)
	srv := server.New(router, ":"+cfg.APIPort, server.Options{ShutdownTimeout: cfg.ShutdownTimeout}, logger)
	srv.OnShutdown("database", func(context.Context) error { return database.Close(db) })
	if publisher != nil {
		srv.OnShutdown("events", func(context.Context) error { return publisher.Close() })
	}

	logger.Info("Starting reference backend", "port", cfg.APIPort, "env", cfg.Env)
	if err := srv.Run(context.Background()); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
