package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/snapdish/backend/config"
	"github.com/snapdish/backend/internal/api"
	"github.com/snapdish/backend/internal/middleware"
	"github.com/snapdish/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	cfg    *config.Config
}

// New creates a new server instance with all routes and middleware wired up
func New(cfg *config.Config, analysisService service.AnalysisServiceInterface, store middleware.CounterStore) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Metrics())

	router.GET("/health", api.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(store, middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimitRequests,
		KeyPrefix: "rate_limit:analyze",
	})

	root := router.Group("")
	api.NewAnalyzeHandler(cfg, analysisService, limiter).RegisterRoutes(root)

	if cfg.Debug {
		api.NewDebugHandler(cfg, analysisService).RegisterRoutes(root)
	}

	return &Server{
		router: router,
		cfg:    cfg,
	}
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * s.cfg.RequestTimeout,
	}

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
