package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/enrichhq/enrichctl/internal/api/handlers"
	"github.com/enrichhq/enrichctl/internal/api/middleware"
	"github.com/enrichhq/enrichctl/internal/logging"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the services the dashboard routes are served from
type Deps struct {
	Tokens       handlers.TokenStore
	Jobs         handlers.JobSnapshots
	Exporter     handlers.Exporter
	Destinations []string
}

// Options configure the HTTP layer
type Options struct {
	ServiceName    string
	AllowedOrigins []string
	PageSize       int
	ExportRPS      float64
	Logger         *logging.Logger
}

type Server struct {
	router *gin.Engine
	deps   Deps
	opts   Options
	logger *logging.Logger
}

func NewServer(deps Deps, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "enrich-dashboard"
	}

	server := &Server{
		router: gin.New(),
		deps:   deps,
		opts:   opts,
		logger: opts.Logger,
	}

	server.router.Use(middleware.CORS(opts.AllowedOrigins))
	server.router.Use(middleware.Recovery(opts.Logger))
	server.router.Use(middleware.RequestID())
	server.router.Use(otelgin.Middleware(opts.ServiceName))
	server.router.Use(middleware.RequestLogger(opts.Logger))
	server.router.Use(middleware.SecurityHeaders())

	server.initializeRoutes()

	return server
}

func (s *Server) initializeRoutes() {
	healthHandler := handlers.NewHealthHandler()
	tokenHandler := handlers.NewTokenHandler(s.deps.Tokens)
	batchHandler := handlers.NewBatchHandler(s.deps.Jobs, s.opts.PageSize)
	exportHandler := handlers.NewExportHandler(s.deps.Exporter, s.deps.Destinations)

	s.router.GET("/health", healthHandler.Check)

	v1 := s.router.Group("/api/v1")
	{
		// Token routes
		v1.GET("/tokens", tokenHandler.ListTokens)
		v1.POST("/tokens", tokenHandler.CreateToken)
		v1.DELETE("/tokens/:id", tokenHandler.RevokeToken)

		// Job routes
		v1.GET("/batches", batchHandler.ListBatches)
		v1.POST("/batches/refresh", batchHandler.RefreshBatches)

		// Export routes
		v1.GET("/exports/destinations", exportHandler.ListDestinations)
		v1.POST("/exports", middleware.RateLimit(middleware.RateLimitConfig{
			RPS:   s.opts.ExportRPS,
			Burst: 1,
		}), exportHandler.Export)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dashboard API listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dashboard API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
