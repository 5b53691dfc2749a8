package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/triage"
	"github.com/okian/readiness/pkg/logger"
	"github.com/okian/readiness/pkg/metrics"
	"github.com/robfig/cron/v3"
)

const scheduledRunTimeout = 2 * time.Minute

// Triager computes the triage list of a day.
type Triager interface {
	Triage(ctx context.Context, day model.Date) ([]model.AlertResult, error)
	Today() model.Date
}

// Scheduler precomputes today's triage on a cron schedule so the first
// morning request is served from cache.
type Scheduler struct {
	cron    *cron.Cron
	triager Triager
	logger  logger.Logger
}

// NewScheduler parses spec (standard five-field cron) in loc.
func NewScheduler(t Triager, spec string, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		triager: t,
		logger:  logger.Get().Named("scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), scheduledRunTimeout)
		defer cancel()
		_ = s.RunOnce(ctx)
	}); err != nil {
		return nil, fmt.Errorf("parsing triage schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce computes today's triage and logs how many athletes need attention.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	day := s.triager.Today()
	results, err := s.triager.Triage(ctx, day)
	if err != nil {
		metrics.RecordScheduledRun("error")
		s.logger.Error(ctx, "scheduled triage failed", logger.String("date", day.String()), logger.Error(err))
		return err
	}
	metrics.RecordScheduledRun("ok")

	counts := triage.Counts(results)
	s.logger.Info(ctx, "scheduled triage computed",
		logger.String("date", day.String()),
		logger.Int("athletes", len(results)),
		logger.Int("critical", counts[model.Critical]),
		logger.Int("warn", counts[model.Warn]),
	)
	return nil
}
