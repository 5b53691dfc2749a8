// Package repository persists wellness reports and load entries.
package repository

import (
	"context"

	"github.com/okian/readiness/internal/domain/model"
)

// Counts summarises what a store holds.
type Counts struct {
	Athletes int `json:"athletes"`
	Wellness int `json:"wellness"`
	Loads    int `json:"loads"`
}

// Store provides read/write access to athlete self-reports.
//
// Ranges are half-open: from is included, to is excluded. Results are ordered
// by date ascending.
type Store interface {
	// UpsertWellness stores a report, replacing any earlier report for the
	// same athlete and day.
	UpsertWellness(ctx context.Context, r model.WellnessReport) error

	// AddLoad appends a load entry and returns it with its ID set.
	AddLoad(ctx context.Context, e model.LoadEntry) (model.LoadEntry, error)

	// Wellness returns an athlete's reports dated in [from, to).
	Wellness(ctx context.Context, athleteID string, from, to model.Date) ([]model.WellnessReport, error)

	// Loads returns an athlete's load entries dated in [from, to).
	Loads(ctx context.Context, athleteID string, from, to model.Date) ([]model.LoadEntry, error)

	// Athletes returns the sorted IDs of athletes with a wellness report in [from, to).
	Athletes(ctx context.Context, from, to model.Date) ([]string, error)

	// Count returns how many athletes and records the store holds.
	Count(ctx context.Context) (Counts, error)

	// Close releases resources.
	Close() error
}
