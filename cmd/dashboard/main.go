package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enrichhq/enrichctl/internal/api"
	"github.com/enrichhq/enrichctl/internal/cache"
	"github.com/enrichhq/enrichctl/internal/config"
	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/logging"
	"github.com/enrichhq/enrichctl/internal/remote"
	"github.com/enrichhq/enrichctl/internal/telemetry"
	"github.com/enrichhq/enrichctl/internal/version"

	"github.com/gin-gonic/gin"
)

const serviceName = "enrich-dashboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Configure and get logger
	logConfig := &logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}
	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting dashboard backend %s in %s mode", version.Info(), cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("Failed to initialize tracing: %v", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown: %v", err)
		}
	}()

	client, err := remote.NewClient(remote.Config{
		BaseURL:   cfg.APIURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.HTTPTimeout,
		ExportDir: cfg.ExportDir,
		UserAgent: version.UserAgent(),
	}, logger)
	if err != nil {
		logger.Error("Failed to create API client: %v", err)
		os.Exit(1)
	}

	kv, err := cache.NewFileKV(cfg.CacheDir())
	if err != nil {
		logger.Error("Failed to open local cache: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		logger.Error("Failed to create export directory: %v", err)
		os.Exit(1)
	}

	// Start job refresh task
	poller := jobs.NewPoller(client, logger)
	if err := poller.Start(cfg.JobsRefreshSchedule); err != nil {
		logger.Error("Failed to start job refresh: %v", err)
		os.Exit(1)
	}
	defer poller.Stop()

	registry := export.NewRegistry(client)
	orchestrator := export.NewOrchestrator(registry, poller, export.Options{
		IntegrationRPS: cfg.IntegrationRPS,
		Logger:         logger,
	})

	srv := api.NewServer(api.Deps{
		Tokens:       credential.NewStore(client, kv, logger),
		Jobs:         poller,
		Exporter:     orchestrator,
		Destinations: registry.Destinations(),
	}, api.Options{
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		PageSize:       cfg.PageSize,
		ExportRPS:      cfg.ExportRPS,
		Logger:         logger,
	})

	if err := srv.Run(ctx, ":"+cfg.DashboardPort); err != nil {
		logger.Error("Dashboard backend stopped: %v", err)
		os.Exit(1)
	}
}
