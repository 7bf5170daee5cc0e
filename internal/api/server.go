package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/FairForge/lakeguard/internal/anomaly"
	"github.com/FairForge/lakeguard/internal/config"
	"github.com/FairForge/lakeguard/internal/database"
)

// Scanner runs one anomaly analysis pass. Implemented by anomaly.Detector.
type Scanner interface {
	Scan(ctx context.Context, windowDays int, sensitivity string) ([]anomaly.Record, *anomaly.Report, error)
}

// Executor runs an already-gated query against the warehouse.
type Executor interface {
	Execute(ctx context.Context, query string) (*database.ResultSet, error)
	Ping(ctx context.Context) error
}

type Server struct {
	config     *config.Config
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
	executor   Executor
	scanner    Scanner
	limiter    *RateLimiter
	metrics    *Metrics
	auth       *Auth
	startTime  time.Time
}

func NewServer(cfg *config.Config, logger *zap.Logger, executor Executor, scanner Scanner) *Server {
	s := &Server{
		config:    cfg,
		logger:    logger,
		router:    chi.NewRouter(),
		executor:  executor,
		scanner:   scanner,
		limiter:   NewRateLimiter(),
		metrics:   NewMetrics(),
		auth:      NewAuth(config.GetEnvOrDefault("LAKEGUARD_JWT_SECRET", ""), logger),
		startTime: time.Now(),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Query.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/query", s.handleQuery)
		r.Get("/anomalies", s.handleAnomalies)
	})
}

// Start begins serving requests.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.Int("port", s.config.Server.Port))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
