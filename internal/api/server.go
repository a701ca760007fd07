// Package api exposes the reconciliation service over HTTP.
//
// The two feed files arrive as a multipart upload; everything past parsing
// is delegated to the application service. Run history is read straight from
// the repository.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/unaascycling/settlement-recon-backend/internal/application/reconcile"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/config"
	"github.com/unaascycling/settlement-recon-backend/internal/infrastructure/storage"
)

// Server is the HTTP API server.
type Server struct {
	cfg     config.ServerConfig
	service *reconcile.Service
	repo    storage.Repository
	logger  *slog.Logger
	engine  *gin.Engine
}

// NewServer creates the API server and registers all routes.
// repo may be nil; the run-history endpoints then return 404s.
func NewServer(cfg config.ServerConfig, service *reconcile.Service, repo storage.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:     cfg,
		service: service,
		repo:    repo,
		logger:  logger,
		engine:  engine,
	}

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	engine.GET("/health", s.health)

	apiGroup := engine.Group("/api")
	apiGroup.POST("/locations", s.listLocations)
	apiGroup.POST("/reconcile", s.runReconciliation)
	apiGroup.GET("/runs", s.listRuns)
	apiGroup.GET("/runs/:id", s.getRun)

	return s
}

// Handler returns the underlying handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server and blocks.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("Starting API server", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
