package domain

import "unicode/utf8"

// MaxTaskTitleLength is the maximum number of characters in a task title.
// It matches the VARCHAR(100) column in the tasks table.
const MaxTaskTitleLength = 100

// Task is a single to-do item.
// ID is assigned by the database on insert and never changes afterwards.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Done        *bool
}

// NewTask builds an unsaved Task and validates it.
func NewTask(title, description string, done bool) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		Done:        done,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	return ValidateTaskTitle(t.Title)
}

// Apply overwrites the fields set in the patch. Only a patched title is
// validated; a stored title is kept as is. The task is left unchanged when
// the patch is invalid.
func (t *Task) Apply(patch TaskPatch) error {
	if patch.Title != nil {
		if err := ValidateTaskTitle(*patch.Title); err != nil {
			return err
		}
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Done == nil
}

// ValidateTaskTitle enforces presence and the length limit.
// Any non-empty string is present, including whitespace.
// Length is counted in characters, not bytes.
func ValidateTaskTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyContent)
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 100 characters", ErrTooLong)
	}
	return nil
}
