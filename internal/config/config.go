package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const defaultSessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"

// Config holds application configuration loaded from environment variables.
// The dashboard (cmd/server) and the reference backend (cmd/api) share it;
// each binary reads the fields it needs.
type Config struct {
	Env       string `env:"ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// Dashboard
	Port          string        `env:"PORT" envDefault:"8080"`
	BackendURL    string        `env:"BACKEND_URL" envDefault:"http://localhost:5000"`
	SessionSecret string        `env:"SESSION_SECRET"`
	ViewIdleTTL   time.Duration `env:"VIEW_IDLE_TTL" envDefault:"2h"`
	ViewSweep     time.Duration `env:"VIEW_SWEEP_INTERVAL" envDefault:"5m"`

	// Reference backend
	APIPort            string `env:"API_PORT" envDefault:"5000"`
	DatabaseURL        string `env:"DATABASE_URL" envDefault:"sqlite://msme.db"`
	RedisURL           string `env:"REDIS_URL"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	SeedDevData        bool   `env:"SEED_DEV_DATA" envDefault:"false"`

	// Content generation. With no GENERATOR_URL the template generator is used.
	GeneratorURL     string        `env:"GENERATOR_URL"`
	GeneratorSecret  string        `env:"GENERATOR_SECRET"`
	GeneratorTimeout time.Duration `env:"GENERATOR_TIMEOUT" envDefault:"30s"`

	// Outbound providers
	AyrshareAPIKey string  `env:"AYRSHARE_API_KEY"`
	AyrshareURL    string  `env:"AYRSHARE_URL" envDefault:"https://app.ayrshare.com/api/post"`
	BrevoAPIKey    string  `env:"BREVO_API_KEY"`
	BrevoURL       string  `env:"BREVO_URL" envDefault:"https://api.brevo.com/v3/smtp/email"`
	EmailSender    string  `env:"EMAIL_SENDER" envDefault:"noreply@automarketer.local"`
	BloggerBlogID  string  `env:"BLOGGER_BLOG_ID"`
	BloggerAPIKey  string  `env:"BLOGGER_API_KEY"`
	BloggerURL     string  `env:"BLOGGER_URL" envDefault:"https://www.googleapis.com/blogger/v3"`
	ProviderRPS    float64 `env:"PROVIDER_RPS" envDefault:"5"`
	ProviderBurst  int     `env:"PROVIDER_BURST" envDefault:"10"`
}

// Load reads configuration from the environment, after applying a .env file
// when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = defaultSessionSecret
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.ViewIdleTTL <= 0 || c.ViewSweep <= 0 {
		return fmt.Errorf("VIEW_IDLE_TTL and VIEW_SWEEP_INTERVAL must be positive")
	}
	if c.ProviderRPS <= 0 {
		return fmt.Errorf("PROVIDER_RPS must be positive, got %v", c.ProviderRPS)
	}
	return nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
