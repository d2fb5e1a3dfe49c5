// Package config loads and validates the application configuration from
// environment variables. All settings use the TASKMAN_ prefix, with nested
// keys joined by underscores (e.g. TASKMAN_SERVER_PORT, TASKMAN_DATABASE_URL).
package config
