package api

import (
	"bytes"
	"encoding/json"

	"github.com/phrazzld/task-api/internal/domain"
)

// CreateTaskRequest defines the payload for POST /api/tasks.
// Description and Done fall back to "" and false when omitted.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=100"`
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

// UpdateTaskRequest defines the payload for PUT /api/tasks/{id}.
// Only the fields present in the body are changed.
type UpdateTaskRequest struct {
	Title       *string        `json:"title"       validate:"omitempty,max=100"`
	Description optionalString `json:"description"`
	Done        *bool          `json:"done"`
}

// optionalString records whether a JSON field was sent at all.
// An explicit null counts as sent and clears the value.
type optionalString struct {
	set   bool
	value string
}

// UnmarshalJSON is also called for a literal null.
func (o *optionalString) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, []byte("null")) {
		o.value = ""
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

func (o optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// toPatch converts the request into a domain patch.
func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description.ptr(),
		Done:        r.Done,
	}
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Done:        task.Done,
	}
}

// tasksToResponse converts tasks and never returns nil, so an empty list encodes as [].
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
