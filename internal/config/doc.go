// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// Database credentials are read from DB_USER, DB_PASSWORD, DB_HOST and DB_NAME
// (or a complete DATABASE_URL). Everything else uses the TASKS_ prefix, e.g.
// TASKS_SERVER_PORT or TASKS_CORS_ALLOWED_ORIGINS.
package config
