// Package cli consolidates the startup steps shared by cmd/nidhi,
// cmd/nidhi-worker, and cmd/nav-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"nidhi/internal/config"
	"nidhi/internal/log"
	"nidhi/internal/storage"
)

// Setup loads the optional .env file and builds the process logger,
// installing it as the slog default.
func Setup(component string) *log.Logger {
	_ = godotenv.Load()

	logger := log.New(log.FromEnv(component))
	log.SetDefault(logger)
	return logger
}

// MustConfig loads and validates configuration, exiting on failure.
func MustConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// MustRepository opens the SQLite repository and runs migrations,
// exiting on failure.
func MustRepository(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
