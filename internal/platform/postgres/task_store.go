package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/store"
)

// description is nullable in the schema; NULL reads back as "".
const selectTaskColumns = `SELECT id, title, COALESCE(description, ''), COALESCE(done, FALSE) FROM tasks`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// The generated ID is written back into task.ID.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (title, description, done)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query, task.Title, task.Description, task.Done).Scan(&task.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("task title rejected by unique index",
				slog.String("title", task.Title))
			return store.ErrTaskTitleExists
		}
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getByID(ctx, id, selectTaskColumns+` WHERE id = $1`)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return s.getByID(ctx, id, selectTaskColumns+` WHERE id = $1 FOR UPDATE`)
}

func (s *PostgresTaskStore) getByID(ctx context.Context, id int64, query string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving task by ID", slog.Int64("task_id", id))

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return task, nil
}

// FindByTitle implements store.TaskStore.FindByTitle
func (s *PostgresTaskStore) FindByTitle(ctx context.Context, title string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := selectTaskColumns + ` WHERE title = $1 ORDER BY id LIMIT 1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to find task by title",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}

	log.Debug("found task by title", slog.Int64("task_id", task.ID))
	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, selectTaskColumns+` ORDER BY id`)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", redact.Error(err)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", redact.Error(err)))
			return nil, store.NewStoreError("task", "list", "failed to scan row", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError("task", "list", "failed to iterate rows", MapError(err))
	}

	log.Debug("listed tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, done = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, task.Title, task.Description, task.Done, task.ID)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not updated",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.Bool("done", task.Done))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not deleted",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// LockTitle implements store.TaskStore.LockTitle
// The advisory lock is released automatically at commit or rollback, so it
// only has an effect when the store is bound to a transaction.
func (s *PostgresTaskStore) LockTitle(ctx context.Context, title string) error {
	if _, err := s.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, title); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to lock task title",
			slog.String("error", redact.Error(err)))
		return MapError(err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Done); err != nil {
		return nil, err
	}
	return &task, nil
}
