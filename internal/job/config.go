package job

import (
	"time"

	"github.com/phrazzld/recipe-api/internal/config"
)

// DispatcherConfig holds configuration for the job dispatcher
type DispatcherConfig struct {
	// WorkerCount determines how many jobs run concurrently
	WorkerCount int

	// QueueSize bounds how many accepted jobs may wait for a worker
	QueueSize int

	// JobTimeout bounds the whole pipeline of a single job
	JobTimeout time.Duration

	// StalledJobAge defines how long a job may sit in a non-terminal stage
	// before the monitor marks it failed
	StalledJobAge time.Duration

	// StalledCheckInterval defines how often to check for stalled jobs
	StalledCheckInterval time.Duration
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		WorkerCount:          4,
		QueueSize:            100,
		JobTimeout:           5 * time.Minute,
		StalledJobAge:        30 * time.Minute,
		StalledCheckInterval: 5 * time.Minute,
	}
}

// ConfigFrom converts the application's dispatcher settings.
func ConfigFrom(cfg config.DispatcherConfig) DispatcherConfig {
	return DispatcherConfig{
		WorkerCount:          cfg.WorkerCount,
		QueueSize:            cfg.QueueSize,
		JobTimeout:           cfg.JobTimeout,
		StalledJobAge:        cfg.StalledJobAge,
		StalledCheckInterval: cfg.StalledCheckInterval,
	}
}

// withDefaults replaces non-positive values with their defaults.
func (c DispatcherConfig) withDefaults() DispatcherConfig {
	def := DefaultDispatcherConfig()
	if c.WorkerCount <= 0 {
		c.WorkerCount = def.WorkerCount
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = def.JobTimeout
	}
	if c.StalledJobAge <= 0 {
		c.StalledJobAge = def.StalledJobAge
	}
	if c.StalledCheckInterval <= 0 {
		c.StalledCheckInterval = def.StalledCheckInterval
	}
	return c
}
