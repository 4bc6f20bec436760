// Package http provides the API server, router, and shared middleware.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/allisson/lockbin/internal/config"
	"github.com/allisson/lockbin/internal/httputil"
	secretHTTP "github.com/allisson/lockbin/internal/secret/http"
)

// Server represents the API HTTP server.
type Server struct {
	server *http.Server
	logger *slog.Logger
	cancel context.CancelFunc
}

// NewServer creates the API server with its router and middleware chain.
// Extra middlewares (e.g. metrics) are appended after the base chain; nil
// entries are skipped.
func NewServer(
	cfg *config.Config,
	secretHandler *secretHTTP.SecretHandler,
	logger *slog.Logger,
	extraMiddlewares ...gin.HandlerFunc,
) *Server {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// The cleanup goroutine lives as long as the server; Shutdown cancels it
	var cancel context.CancelFunc
	if cfg.RateLimitEnabled {
		var middlewareCtx context.Context
		middlewareCtx, cancel = context.WithCancel(context.Background())
		router.Use(RateLimitMiddleware(middlewareCtx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	for _, middleware := range extraMiddlewares {
		if middleware != nil {
			router.Use(middleware)
		}
	}

	router.GET("/health", secretHandler.HealthHandler)

	api := router.Group("/api")
	{
		api.POST("/text", secretHandler.CreateTextHandler)
		api.GET("/text/:id", secretHandler.RevealTextHandler)
		api.GET("/text/:id/exists", secretHandler.ExistsHandler)

		api.POST("/file", secretHandler.CreateFileHandler)
		api.GET("/file/:id", secretHandler.RevealFileHandler)
		api.GET("/file/:id/exists", secretHandler.ExistsHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{
			Error:   "not_found",
			Message: "Route not found",
		})
	})

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		cancel: cancel,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API HTTP server and stops the rate
// limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.cancel != nil {
		s.cancel()
	}
	return s.server.Shutdown(ctx)
}
