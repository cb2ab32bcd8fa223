package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/platform/postgres"
)

// handleMigrations runs a single goose command against db.
// It's called from main() when the -migrate flag is set.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	// Use a correlation ID for all migration logs to allow tracing the entire operation
	migrationLogger := logger.With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation")

	err := postgres.Migrate(ctx, db, command, migrationLogger)

	migrationLogger.Info("Migration operation completed",
		"duration_ms", time.Since(startTime).Milliseconds(),
		"success", err == nil)

	return err
}
