package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const (
	// MigrationsDir is the directory inside the embedded filesystem holding the SQL files.
	MigrationsDir = "migrations"

	// MigrationsTable records which migrations have been applied.
	MigrationsTable = "schema_migrations"
)

// Supported migration commands.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, log *slog.Logger, args ...string) error {
	switch command {
	case MigrateUp, MigrateDown, MigrateStatus, MigrateVersion, MigrateReset:
	default:
		return fmt.Errorf("unsupported migration command %q", command)
	}

	if log == nil {
		log = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embeddedMigrations)
	goose.SetTableName(MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: log.With(slog.String("component", "migrations"))})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, MigrationsDir, args...); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	return nil
}

// EnsureSchema applies all pending migrations. It is safe to call on every
// startup: already-applied migrations are skipped.
func EnsureSchema(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	return Migrate(ctx, db, MigrateUp, log)
}

// slogGooseLogger adapts slog to goose's Printf/Fatalf logger interface.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It logs at error level and does not exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
