package config

import "time"

// Store backends selectable through store.backend.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Store      StoreConfig      `mapstructure:"store" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Dispatcher DispatcherConfig `mapstructure:"dispatcher" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects the job store implementation.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres memory"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is only required when the postgres backend is selected.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"omitempty,url"`
	MaxConns        int32         `mapstructure:"max_conns" validate:"gt=0"`
	MinConns        int32         `mapstructure:"min_conns" validate:"gte=0,ltefield=MaxConns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// DispatcherConfig sizes the background worker pool and bounds job runtime.
type DispatcherConfig struct {
	WorkerCount          int           `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize            int           `mapstructure:"queue_size" validate:"gt=0"`
	JobTimeout           time.Duration `mapstructure:"job_timeout" validate:"gt=0"`
	StalledJobAge        time.Duration `mapstructure:"stalled_job_age" validate:"gtfield=JobTimeout"`
	StalledCheckInterval time.Duration `mapstructure:"stalled_check_interval" validate:"gt=0"`
}

// AnalysisConfig points at the external recipe analysis engine.
type AnalysisConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}
