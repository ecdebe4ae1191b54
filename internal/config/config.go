package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for enrichctl and the dashboard backend
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`

	// Enrichment API
	APIURL      string        `env:"ENRICH_API_URL" validate:"required,url"`
	APIToken    string        `env:"ENRICH_API_TOKEN"`
	HTTPTimeout time.Duration `env:"ENRICH_HTTP_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// Local state
	Home      string `env:"ENRICH_HOME" envDefault:"~/.enrichctl" validate:"required"`
	ExportDir string `env:"ENRICH_EXPORT_DIR"`

	// Job view and export
	PageSize            int     `env:"ENRICH_PAGE_SIZE" envDefault:"10" validate:"min=1,max=100"`
	IntegrationRPS      float64 `env:"EXPORT_INTEGRATION_RPS" envDefault:"2" validate:"gte=0"`
	JobsRefreshSchedule string  `env:"JOBS_REFRESH_SCHEDULE" envDefault:"@every 15s"`

	// Dashboard backend
	DashboardPort  string   `env:"DASHBOARD_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"DASHBOARD_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ExportRPS      float64  `env:"DASHBOARD_EXPORT_RPS" envDefault:"5" validate:"gte=0"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFile  string `env:"LOG_FILE"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// DefaultAPIURL is used when neither the environment nor the settings
// file names an API.
const DefaultAPIURL = "https://api.enrichhq.io"

var validate = validator.New()

// Load loads the configuration from .env files, the environment and the
// saved settings file. Environment variables win over saved settings.
func Load() (*Config, error) {
	envLocations := []string{".env"}
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}
	for _, loc := range envLocations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	home, err := ExpandHome(cfg.Home)
	if err != nil {
		return nil, err
	}
	cfg.Home = home

	settings, err := LoadSettings(cfg.Home)
	if err != nil {
		return nil, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = settings.APIURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.APIToken == "" {
		cfg.APIToken = settings.Token
	}

	if cfg.ExportDir == "" {
		cfg.ExportDir = filepath.Join(cfg.Home, "exports")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.Home, "client.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CacheDir is where durable client state is kept
func (c *Config) CacheDir() string {
	return filepath.Join(c.Home, "cache")
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ExpandHome replaces a leading ~/ with the user's home directory
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")), nil
}
