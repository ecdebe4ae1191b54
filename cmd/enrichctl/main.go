package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enrichhq/enrichctl/internal/cache"
	"github.com/enrichhq/enrichctl/internal/config"
	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/logging"
	"github.com/enrichhq/enrichctl/internal/remote"
	"github.com/enrichhq/enrichctl/internal/telemetry"
	"github.com/enrichhq/enrichctl/internal/version"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var logger *logging.Logger

func initLogger() {
	// Initialize logger configuration
	logConfig := &logging.Config{
		Level:      "info",
		File:       "~/.enrichctl/client.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logConfig.Level = level
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		logConfig.File = file
	}

	// Initialize the global logger
	if err := logging.InitLogger(logConfig); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Get the logger instance
	logger = logging.GetGlobalLogger()
}

// app holds what every remote command needs
type app struct {
	cfg      *config.Config
	client   *remote.Client
	store    *credential.Store
	shutdown telemetry.ShutdownFunc
}

func newApp() *app {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Error loading config: %v", err)
		os.Exit(1)
	}

	shutdown, err := telemetry.InitTracing(context.Background(), "enrichctl", cfg.OTLPEndpoint)
	if err != nil {
		logger.Warn("Tracing disabled: %v", err)
	}
	a := &app{cfg: cfg, shutdown: shutdown}

	a.client, err = remote.NewClient(remote.Config{
		BaseURL:   cfg.APIURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.HTTPTimeout,
		ExportDir: cfg.ExportDir,
		UserAgent: version.UserAgent(),
	}, logger)
	if err != nil {
		a.fatal("Failed to create API client: %v", err)
		return a
	}

	kv, err := cache.NewFileKV(cfg.CacheDir())
	if err != nil {
		a.fatal("Failed to open local cache: %v", err)
		return a
	}
	a.store = credential.NewStore(a.client, kv, logger)

	return a
}

// exitFunc is swapped out in tests.
var exitFunc = os.Exit

// close flushes pending spans.
func (a *app) close() {
	if a.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		logger.Debug("Tracing shutdown: %v", err)
	}
	a.shutdown = nil
}

// exit flushes telemetry before leaving, since deferred calls do not run
// on os.Exit.
func (a *app) exit(code int) {
	a.close()
	exitFunc(code)
}

func (a *app) fatal(format string, v ...interface{}) {
	logger.Error(format, v...)
	a.exit(1)
}

// withSpinner runs fn while a spinner shows suffix
func withSpinner(suffix string, fn func()) {
	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
	s.Suffix = " " + suffix
	s.Writer = os.Stderr
	s.Start()
	defer s.Stop()
	fn()
}

var rootCmd = &cobra.Command{
	Use:   "enrichctl",
	Short: "enrichctl - contact enrichment from the terminal",
	Long: `enrichctl manages API tokens, browses enrichment jobs and exports their
results to files or connected integrations.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Info("enrichctl version: %s", version.Info())
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the API token used by every other command",
	Long: `Save an API token (and optionally the API URL) to ~/.enrichctl/config.json.
The token is checked against the token service before it is saved.

Example:
  enrichctl login --token your-api-token [--api-url https://api.enrichhq.io]`,
	Run: func(cmd *cobra.Command, args []string) {
		token, _ := cmd.Flags().GetString("token")
		apiURL, _ := cmd.Flags().GetString("api-url")
		skipCheck, _ := cmd.Flags().GetBool("skip-check")

		home, err := config.ExpandHome(envOr("ENRICH_HOME", "~/.enrichctl"))
		if err != nil {
			logger.Error("Failed to determine config directory: %v", err)
			os.Exit(1)
		}

		settings, err := config.LoadSettings(home)
		if err != nil {
			logger.Error("Error loading settings: %v", err)
			os.Exit(1)
		}
		settings.Token = token
		if apiURL != "" {
			settings.APIURL = apiURL
		}
		if settings.APIURL == "" {
			settings.APIURL = config.DefaultAPIURL
		}

		if !skipCheck {
			client, err := remote.NewClient(remote.Config{
				BaseURL:   settings.APIURL,
				Token:     settings.Token,
				UserAgent: version.UserAgent(),
			}, logger)
			if err != nil {
				logger.Error("Invalid API URL: %v", err)
				os.Exit(1)
			}

			withSpinner("Checking token...", func() {
				_, err = client.ListTokens(cmd.Context())
			})
			if err != nil {
				logger.Error("Token check failed: %v", err)
				os.Exit(1)
			}
		}

		if err := config.SaveSettings(home, settings); err != nil {
			logger.Error("Failed to save settings: %v", err)
			os.Exit(1)
		}

		logger.Info("Saved credentials to %s", config.SettingsPath(home))
		logger.Info("API server: %s", settings.APIURL)
	},
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	// Initialize logger first
	initLogger()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(exportCmd)

	initConfigCommands()
	initTokenCommands()
	initJobCommands()
	initExportCommands()

	loginCmd.Flags().String("token", "", "API token for authentication")
	loginCmd.Flags().String("api-url", "", "Enrichment API URL (default: "+config.DefaultAPIURL+")")
	loginCmd.Flags().Bool("skip-check", false, "Save the token without checking it against the API")
	loginCmd.MarkFlagRequired("token")

	logger.Debug("CLI commands and flags initialized")
}

func main() {
	defer logger.Close()

	// Cancel in-flight requests on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}
