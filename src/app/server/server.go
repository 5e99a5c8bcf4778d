// Package server provides HTTP server initialization and lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"jokebox/src/app/http/handler"
	"jokebox/src/app/middleware"
	"jokebox/src/core/ports"
	"jokebox/src/core/usecase"
	"jokebox/src/infra/auth"
	"jokebox/src/infra/config"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg    *config.Config
	log    *slog.Logger
	router *gin.Engine
	http   *http.Server

	codec ports.SessionCodec

	// Handlers
	healthHandler *handler.HealthHandler
	authHandler   *handler.AuthHandler
	jokeHandler   *handler.JokeHandler
}

// New creates a new Server with all dependencies wired up.
func New(cfg *config.Config, log *slog.Logger, repo ports.ContentRepository) *Server {
	// Set Gin mode based on log level
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	router := gin.New()

	// Credential and session primitives
	hasher := auth.NewBcryptHasher(0)
	codec := auth.NewTokenCodec(cfg.Session.Secret, cfg.Session.MaxAge)

	// Create services
	healthService := usecase.NewHealthService(repo, log)
	authService := usecase.NewAuthService(repo, hasher, log)
	jokeService := usecase.NewJokeService(repo, log)

	// Create handlers
	healthHandler := handler.NewHealthHandler(healthService)
	authHandler := handler.NewAuthHandler(authService, codec, cfg.Session)
	jokeHandler := handler.NewJokeHandler(jokeService, codec, cfg.Session.CookieName)

	s := &Server{
		cfg:           cfg,
		log:           log,
		router:        router,
		codec:         codec,
		healthHandler: healthHandler,
		authHandler:   authHandler,
		jokeHandler:   jokeHandler,
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupHTTPServer()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// Order matters: Recovery should be first to catch all panics
	s.router.Use(middleware.Recovery(s.log))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Logging(s.log))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	cookieName := s.cfg.Session.CookieName
	optionalUser := middleware.OptionalUser(s.codec, cookieName)
	requireUser := middleware.RequireUser(s.codec, cookieName)

	// Health check endpoints (no auth required)
	s.router.GET("/health", s.healthHandler.Health)
	s.router.GET("/health/detailed", s.healthHandler.DetailedHealth)

	// Session lifecycle
	s.router.POST("/login", s.authHandler.Login)
	s.router.POST("/logout", s.authHandler.Logout)
	s.router.GET("/me", optionalUser, s.authHandler.Me)

	// Jokes
	jokes := s.router.Group("/jokes")
	{
		jokes.GET("", optionalUser, s.jokeHandler.List)
		jokes.GET("/random", optionalUser, s.jokeHandler.Random)
		jokes.GET("/new", optionalUser, s.jokeHandler.New)
		jokes.POST("", requireUser, s.jokeHandler.Create)
		jokes.GET("/:joke_id", optionalUser, s.jokeHandler.Get)
		// Mutate checks the intent before identity, so it guards itself.
		jokes.POST("/:joke_id", s.jokeHandler.Mutate)
	}

	// Handle 404
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":       "NOT_FOUND",
				"message":    "The requested resource was not found",
				"request_id": middleware.GetRequestID(c),
			},
		})
	})
}

// setupHTTPServer configures the underlying HTTP server.
func (s *Server) setupHTTPServer() {
	s.http = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// Run starts the HTTP server and blocks until shutdown.
// It handles graceful shutdown on SIGINT/SIGTERM.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		s.log.Info("starting HTTP server",
			"addr", s.cfg.Server.Addr(),
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-quit:
		s.log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		return err
	}

	// Graceful shutdown
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("server stopped gracefully")
	return nil
}

// Router returns the Gin router for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// WaitForReady waits until the server is ready to accept connections.
// Useful for integration tests.
func (s *Server) WaitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(fmt.Sprintf("http://%s/health", s.cfg.Server.Addr()))
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}
