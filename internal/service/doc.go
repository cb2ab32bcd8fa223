// Package service contains the task use cases. It sits between the HTTP
// handlers in internal/api and the persistence interfaces in internal/store.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete database implementation. Operations that read
// before they write (title uniqueness on create, existence checks on update
// and delete) run inside a single transaction via store.RunInTransaction.
//
// Errors are translated into the service sentinels ErrTaskNotFound and
// ErrTitleConflict. Domain validation errors pass through unchanged so the
// API layer can report them as bad requests. Anything else is wrapped in a
// TaskServiceError.
package service
