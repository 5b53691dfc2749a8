// Package config defines service configuration and its loader.
//
// Values are layered: defaults from New, then an optional YAML file named by
// READINESS_CONFIG, then READINESS_* environment variables.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of assessment workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory assessment task queue.
	QueueSize int `koanf:"queue_size"`

	// BaselineWindowDays is the number of days before the scoring day used for the baseline.
	BaselineWindowDays int `koanf:"baseline_window_days"`

	// BaselineMinSamples is the fewest usable days for a baseline to count.
	BaselineMinSamples int `koanf:"baseline_min_samples"`

	// DBPath points at the SQLite database. Empty keeps everything in memory.
	DBPath string `koanf:"db_path"`

	// RedisAddr enables the Redis triage cache. Empty uses an in-process cache.
	RedisAddr string `koanf:"redis_addr"`

	// CacheTTL bounds how long a computed triage list is served from cache.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// TriageSchedule is a cron spec for precomputing today's triage. Empty disables it.
	TriageSchedule string `koanf:"triage_schedule"`

	// TriageTimezone decides what "today" means for the scheduler.
	TriageTimezone string `koanf:"triage_timezone"`

	// MaxBatchSize caps the number of athletes assessed in one triage request.
	MaxBatchSize int `koanf:"max_batch_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		WorkerCount:        runtime.NumCPU() * 2,
		QueueSize:          10_000,
		BaselineWindowDays: 21,
		BaselineMinSamples: 7,
		CacheTTL:           5 * time.Minute,
		TriageSchedule:     "0 6 * * *",
		TriageTimezone:     "UTC",
		MaxBatchSize:       500,
	}
}
