// Package service provides application-level operations for managing tasks.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/task-api/internal/store"
)

// Service errors that callers check with errors.Is.
// The API layer maps these to HTTP status codes.
var (
	// ErrTaskNotFound indicates that no task exists for the requested ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTitleConflict indicates that another task already uses the title.
	// API layer should map this to HTTP 400 Bad Request.
	ErrTitleConflict = errors.New("task title already exists")
)

// TitleConflictError reports the title that collided with an existing task.
// Its message is returned to clients verbatim.
type TitleConflictError struct {
	Title string
}

// Error implements the error interface for TitleConflictError.
func (e *TitleConflictError) Error() string {
	return fmt.Sprintf("Tarefa com o titulo %s já existe", e.Title)
}

// Unwrap returns ErrTitleConflict so errors.Is works on the sentinel.
func (e *TitleConflictError) Unwrap() error {
	return ErrTitleConflict
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "delete_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors are returned directly without wrapping, and store
// not-found errors are translated to ErrTaskNotFound.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var conflict *TitleConflictError
	if errors.As(err, &conflict) {
		return conflict
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
