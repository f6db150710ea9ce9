// Package cli holds the startup plumbing shared by cmd/finflow and
// cmd/finflow-worker: env loading, logger and config setup, store and
// publisher construction.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"finflow/internal/amqp"
	"finflow/internal/config"
	"finflow/internal/ledger"
	"finflow/internal/log"
	"finflow/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger() *log.Logger {
	return log.New(slog.LevelInfo)
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the store selected by DATA_BACKEND. Opening the sqlite
// repository runs pending migrations. Exits the process on failure.
func InitStore(logger *log.Logger, cfg *config.Config) storage.Store {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Using SQLite backend", "path", cfg.SQLiteDBPath)
		return repo
	default:
		logger.Info("Using in-memory backend")
		return storage.NewMemoryStore()
	}
}

// InitPublisher connects to AMQP when an URL is configured. Without one,
// record-changed events are disabled and a nil publisher is returned.
func InitPublisher(logger *log.Logger, cfg *config.Config) ledger.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, record-changed events will not be published")
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}
