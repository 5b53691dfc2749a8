package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/pkg/metrics"
)

func checkRange(from, to model.Date) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, from, to)
	}
	return nil
}

func checkWellness(r model.WellnessReport) error {
	if strings.TrimSpace(r.AthleteID) == "" || r.Date.IsZero() {
		return fmt.Errorf("%w: wellness report needs athleteId and date", ErrInvalidRecord)
	}
	return nil
}

// prepareLoad validates e and assigns an ID when it has none.
func prepareLoad(e model.LoadEntry) (model.LoadEntry, error) {
	if strings.TrimSpace(e.AthleteID) == "" || e.Date.IsZero() {
		return e, fmt.Errorf("%w: load entry needs athleteId and date", ErrInvalidRecord)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return e, nil
}

// observe records the latency of op and counts a failure when err is set.
func observe(op string, start time.Time, err error) {
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(op)
	}
}
