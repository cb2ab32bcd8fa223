package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create inserts a new task and sets task.ID to the generated identifier.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDForUpdate retrieves a task and locks its row until the
	// surrounding transaction ends. Outside a transaction it behaves like GetByID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error)

	// FindByTitle retrieves the first task whose title matches exactly.
	// Returns ErrTaskNotFound if no task has that title.
	FindByTitle(ctx context.Context, title string) (*domain.Task, error)

	// List returns every task ordered by ID.
	// Returns an empty slice when the table is empty.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update overwrites title, description and done of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// LockTitle takes a transaction-scoped lock on a title so that concurrent
	// creates with the same title run one after another.
	LockTitle(ctx context.Context, title string) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
