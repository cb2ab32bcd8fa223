// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of query execution, error translation, and data
// mapping between domain entities and database records.
//
// The schema lives in migrations/ as goose SQL files embedded into the binary;
// EnsureSchema applies them at startup.
package postgres
