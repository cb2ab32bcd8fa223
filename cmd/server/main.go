// Package main implements the entry point for the task API server,
// a small JSON service for creating, listing, updating and deleting tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/task-api/internal/config"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

// main loads configuration, connects to the database and either runs a
// migration command or serves HTTP until SIGINT/SIGTERM.
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up, down, status, version, reset) and exit",
	)
	flag.Parse()

	if err := run(context.Background(), *configPath, *migrateCmd); err != nil {
		slog.Error("task API server stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires every component together. It is separated from main so the
// exit code is decided in one place.
func run(ctx context.Context, configPath, migrateCmd string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_host", extractHostFromURL(cfg.Database.DSN()))

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database connection", "error", err)
			}
		}()
		return handleMigrations(ctx, db, migrateCmd, log)
	}

	if err := postgres.EnsureSchema(ctx, db, log); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadConfig reads configuration from the environment, optionally layered
// over an explicit YAML file.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
