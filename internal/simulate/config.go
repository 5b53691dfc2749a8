// Package simulate generates a synthetic squad, posts it to a running
// readiness service and renders the resulting triage.
package simulate

import (
	"time"

	"github.com/okian/readiness/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Athletes int           // Squad size
	Days     int           // History length before today
	Workers  int           // Concurrent submitters
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Generator seed; equal seeds give equal scores
	Today    model.Date    // Scoring day; zero means the current UTC day
	Verbose  bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	Athletes  int
	Submitted int
	Failed    int
	StartTime time.Time
	Duration  time.Duration
}

// Default configuration values.
const (
	DefaultAthletes = 12
	DefaultDays     = 28
	DefaultTimeout  = 10 * time.Second
)

func (c *Config) normalize() {
	if c.Athletes < 1 {
		c.Athletes = DefaultAthletes
	}
	if c.Days < 1 {
		c.Days = DefaultDays
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Today.IsZero() {
		c.Today = model.DateOf(time.Now().UTC())
	}
}
