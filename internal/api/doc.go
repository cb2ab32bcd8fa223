// Package api handles incoming HTTP requests, request validation and
// response formatting for the task endpoints. It acts as an adapter between
// HTTP clients and internal/service.
//
// Every error response has the shape {"error": "<message>"}. Messages come
// from GetSafeErrorMessage so internal details stay in the logs.
package api
