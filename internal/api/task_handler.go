package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/service"
)

// MsgTaskDeleted confirms a successful delete.
const MsgTaskDeleted = "Task deletada com sucesso."

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	var description string
	if req.Description != nil {
		description = *req.Description
	}
	done := req.Done != nil && *req.Done

	task, err := h.taskService.CreateTask(r.Context(), req.Title, description, done)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// UpdateTask handles PUT /api/tasks/{id} requests
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Debug("invalid task id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.rejectUpdate(w, r, id, MsgInvalidRequest, err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		h.rejectUpdate(w, r, id, SanitizeValidationError(err), err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	log.Debug("task updated", slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// rejectUpdate answers an unusable update body with 400.
// An unknown task is reported as 404 first, whatever the body holds.
func (h *TaskHandler) rejectUpdate(w http.ResponseWriter, r *http.Request, id int64, msg string, cause error) {
	if _, err := h.taskService.GetTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, cause)
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
// It answers 204, so the confirmation message never reaches the client.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		log.Debug("invalid task id in path", slog.String("error", err.Error()))
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	shared.RespondWithJSON(w, r, http.StatusNoContent, MessageResponse{Message: MsgTaskDeleted})
}
