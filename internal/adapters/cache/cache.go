// Package cache keeps computed triage lists so repeated reads of the same day
// do not re-run the whole batch.
package cache

import (
	"context"
	"time"

	"github.com/okian/readiness/internal/domain/model"
)

// Cache stores ranked triage lists keyed by day.
type Cache interface {
	// Get returns the cached list for day and whether it was present.
	Get(ctx context.Context, day model.Date) ([]model.AlertResult, bool, error)
	// Set stores the list for day. A ttl <= 0 keeps it until invalidated.
	Set(ctx context.Context, day model.Date, results []model.AlertResult, ttl time.Duration) error
	// Invalidate drops the lists for the given days.
	Invalidate(ctx context.Context, days ...model.Date) error
	// Close releases resources.
	Close() error
}
