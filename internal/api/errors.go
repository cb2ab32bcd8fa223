package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// Messages returned to clients for well-known conditions.
const (
	MsgTaskNotFound    = "Task not found"
	MsgInvalidRequest  = "Invalid request format"
	MsgUnexpectedError = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// A duplicate title is reported as a bad request, not 409
	case errors.Is(err, service.ErrTitleConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpectedError
	}

	var conflict *service.TitleConflictError
	var verrs validator.ValidationErrors
	var domainErr *domain.ValidationError

	switch {
	case errors.As(err, &conflict):
		return conflict.Error()

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, store.ErrNotFound):
		return MsgTaskNotFound

	case errors.Is(err, store.ErrDuplicate):
		return "Task already exists"

	case errors.As(err, &verrs), errors.As(err, &domainErr):
		return SanitizeValidationError(err)

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return MsgUnexpectedError
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message such as "Invalid title: required field".
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Invalid " + verrs[0].Field() + ": " + getValidationTagMessage(verrs[0].Tag())
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		if domainErr.Field == "" {
			return "Invalid request: " + domainErr.Message
		}
		return "Invalid " + domainErr.Field + ": " + domainErr.Message
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the details.
// fallback replaces the generic message for unexpected (500) errors when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
