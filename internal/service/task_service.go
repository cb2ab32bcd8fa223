package service

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

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask stores a new task. It fails with a *TitleConflictError when
	// another task already has the same title.
	CreateTask(ctx context.Context, title, description string, done bool) (*domain.Task, error)

	// ListTasks returns every task ordered by ID.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask returns a single task.
	// Returns ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask applies the fields present in patch and returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db     *sql.DB
	tasks  store.TaskStore
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(db *sql.DB, tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if db == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "db cannot be nil"}
	}
	if tasks == nil {
		return nil, &TaskServiceError{Operation: "create_service", Message: "tasks cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:     db,
		tasks:  tasks,
		logger: logger.With("component", "task_service"),
	}, nil
}

// log returns the request-scoped logger when one is present in ctx.
func (s *taskServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// CreateTask checks the title and inserts the task in one transaction.
// The title lock serializes concurrent creates with the same title.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title, description string,
	done bool,
) (*domain.Task, error) {
	log := s.log(ctx)

	task, err := domain.NewTask(title, description, done)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		if err := txTasks.LockTitle(ctx, task.Title); err != nil {
			return NewTaskServiceError("create_task", "failed to lock title", err)
		}

		existing, err := txTasks.FindByTitle(ctx, task.Title)
		switch {
		case err == nil && existing != nil:
			return &TitleConflictError{Title: task.Title}
		case err != nil && !store.IsNotFoundError(err):
			return NewTaskServiceError("create_task", "failed to check title", err)
		}

		if err := txTasks.Create(ctx, task); err != nil {
			if store.IsDuplicateError(err) {
				return &TitleConflictError{Title: task.Title}
			}
			return s.storeErr("create_task", "failed to save task", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, "create_task", err, slog.String("title", task.Title))
		return nil, err
	}

	log.Info("task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// ListTasks returns all tasks.
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		s.logFailure(s.log(ctx), "list_tasks", err)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask reads a task without locking it.
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		err = NewTaskServiceError("get_task", "failed to load task", err)
		s.logFailure(s.log(ctx), "get_task", err, slog.Int64("task_id", id))
		return nil, err
	}
	return task, nil
}

// UpdateTask locks the row, merges the patch and saves the result.
// The title is not checked against other tasks.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := s.log(ctx)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to load task", err)
		}

		if err := task.Apply(patch); err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = task
			return nil
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return s.storeErr("update_task", "failed to save task", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		s.logFailure(log, "update_task", err, slog.Int64("task_id", id))
		return nil, err
	}

	log.Info("task updated", slog.Int64("task_id", id))
	return updated, nil
}

// DeleteTask locks the row, then deletes it.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	log := s.log(ctx)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		if _, err := txTasks.GetByIDForUpdate(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to load task", err)
		}

		if err := txTasks.Delete(ctx, id); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, "delete_task", err, slog.Int64("task_id", id))
		return err
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// storeErr keeps domain validation errors intact and wraps everything else.
func (s *taskServiceImpl) storeErr(operation, message string, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	return NewTaskServiceError(operation, message, err)
}

// logFailure logs expected outcomes at debug level and unexpected ones at error level.
func (s *taskServiceImpl) logFailure(log *slog.Logger, operation string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("operation", operation))
	switch {
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrTitleConflict),
		errors.Is(err, domain.ErrValidation):
		log.Debug("task operation rejected", append(attrs, slog.String("error", err.Error()))...)
	default:
		log.Error("task operation failed", append(attrs, slog.String("error", redact.Error(err)))...)
	}
}
