package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// getPathID extracts a task ID from the URL path parameters.
// Anything that is not a positive integer cannot name a task, so it is
// reported as service.ErrTaskNotFound.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id < 1 {
		return 0, service.ErrTaskNotFound
	}

	return id, nil
}
