// Package main is the entry point for the jokebox API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"jokebox/src/app/server"
	"jokebox/src/infra/config"
	"jokebox/src/infra/db"
	"jokebox/src/infra/logger"
	"jokebox/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load a local .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration from environment variables.
	// A missing session secret or database password fails here, before
	// any request is served.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	// Initialize database connection
	pg, err := db.New(context.Background(), cfg.Database, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	// Initialize repositories
	contentRepo := repo.NewPostgresRepository(pg, log)
	if err := contentRepo.EnsureSchema(context.Background()); err != nil {
		return err
	}

	// Create and run HTTP server
	srv := server.New(cfg, log, contentRepo)

	// Run blocks until shutdown signal is received
	return srv.Run()
}
