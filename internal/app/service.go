// Package service wires storage, caching and the worker pool around the
// readiness engine and exposes the operations the HTTP API needs.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/readiness/internal/adapters/cache"
	"github.com/okian/readiness/internal/adapters/mq/queue"
	"github.com/okian/readiness/internal/adapters/mq/worker"
	"github.com/okian/readiness/internal/adapters/repository"
	"github.com/okian/readiness/internal/domain/load"
	"github.com/okian/readiness/internal/domain/model"
	"github.com/okian/readiness/internal/domain/readiness"
	"github.com/okian/readiness/internal/domain/triage"
	"github.com/okian/readiness/internal/domain/wellness"
	"github.com/okian/readiness/pkg/logger"
	"github.com/okian/readiness/pkg/metrics"
)

// Service implements the API dependencies for the readiness system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	cache  cache.Cache
	queue  *queue.InMemoryQueue
	pool   *worker.Pool
	engine *readiness.Engine

	// Configuration
	workerCount  int
	queueSize    int
	windowDays   int
	minSamples   int
	maxBatchSize int
	cacheTTL     time.Duration
	location     *time.Location
	now          func() time.Time

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	// gens counts writes per cached day so a batch computed across a write
	// is never left in the cache.
	genMu sync.Mutex
	gens  map[model.Date]uint64

	logger logger.Logger
}

// New constructs a new Service with default configuration. The store and
// cache default to in-memory implementations.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    10_000,
		windowDays:   wellness.DefaultWindowDays,
		minSamples:   wellness.DefaultMinSamples,
		maxBatchSize: 500,
		cacheTTL:     5 * time.Minute,
		location:     time.UTC,
		now:          time.Now,
		gens:         make(map[model.Date]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	s.engine = readiness.NewEngine(
		wellness.WithWindowDays(s.windowDays),
		wellness.WithMinSamples(s.minSamples),
	)
	return s
}

// Start initializes and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	// Workers outlive the request that started them; Stop cancels them.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(poolCtx)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "readiness service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("baselineWindowDays", s.windowDays),
		logger.Int("baselineMinSamples", s.minSamples),
	)
	return nil
}

// Stop drains the worker pool and closes the store and cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping readiness service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not stop cleanly", logger.Error(err))
	}
	s.cancel()
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(ctx, "closing cache", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "closing store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "readiness service stopped")
}

// Today returns the current calendar day in the configured location.
func (s *Service) Today() model.Date {
	return model.DateOf(s.now().In(s.location))
}

// SubmitWellness stores a daily report. The report feeds the baselines of the
// following window, so every cached triage it can affect is dropped.
func (s *Service) SubmitWellness(ctx context.Context, r model.WellnessReport) error {
	if err := s.store.UpsertWellness(ctx, r); err != nil {
		return fmt.Errorf("storing wellness for %s: %w", r.AthleteID, err)
	}
	metrics.RecordReportIngested("wellness")

	days := make([]model.Date, 0, s.windowDays+1)
	for i := 0; i <= s.windowDays; i++ {
		days = append(days, r.Date.AddDays(i))
	}
	s.invalidate(ctx, days...)
	return nil
}

// SubmitLoad stores a session load entry. Only the next day's assessment
// reads it.
func (s *Service) SubmitLoad(ctx context.Context, e model.LoadEntry) (model.LoadEntry, error) {
	stored, err := s.store.AddLoad(ctx, e)
	if err != nil {
		return stored, fmt.Errorf("storing load for %s: %w", e.AthleteID, err)
	}
	metrics.RecordReportIngested("load")
	s.invalidate(ctx, e.Date.AddDays(1))
	return stored, nil
}

func (s *Service) generation(day model.Date) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[day]
}

func (s *Service) invalidate(ctx context.Context, days ...model.Date) {
	s.genMu.Lock()
	for _, d := range days {
		s.gens[d]++
	}
	s.genMu.Unlock()
	if err := s.cache.Invalidate(ctx, days...); err != nil {
		s.log().Warn(ctx, "cache invalidation failed", logger.Error(err))
	}
}

// Evaluate fetches one athlete's data and assesses the given day. It is the
// worker pool's evaluator.
func (s *Service) Evaluate(ctx context.Context, athleteID string, day model.Date) (model.AlertResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAssessmentLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	reports, err := s.store.Wellness(ctx, athleteID, day.AddDays(-s.windowDays), day.AddDays(1))
	if err != nil {
		metrics.RecordAssessmentError()
		return model.AlertResult{}, fmt.Errorf("loading wellness: %w", err)
	}
	prev, err := s.store.Loads(ctx, athleteID, day.AddDays(-1), day)
	if err != nil {
		metrics.RecordAssessmentError()
		return model.AlertResult{}, fmt.Errorf("loading previous load: %w", err)
	}

	today, yesterday, window := readiness.Split(day, reports)
	res := s.engine.Assess(readiness.Input{
		AthleteID: athleteID,
		Date:      day,
		Today:     today,
		Yesterday: yesterday,
		Window:    window,
		PrevLoad:  load.AlertLoad(prev),
	})
	metrics.RecordAssessment(string(res.Severity), string(res.Color))
	return res, nil
}

// Alert assesses a single athlete. Athletes without data still get a result.
func (s *Service) Alert(ctx context.Context, athleteID string, day model.Date) (model.AlertResult, error) {
	return s.Evaluate(ctx, athleteID, day)
}

// Triage returns the ranked assessments of every athlete with a wellness
// report in the baseline window ending on day. Assessments fan out over the
// worker pool; ranking waits for all of them.
func (s *Service) Triage(ctx context.Context, day model.Date) ([]model.AlertResult, error) {
	if cached, ok, err := s.cache.Get(ctx, day); err != nil {
		s.log().Warn(ctx, "cache read failed", logger.String("date", day.String()), logger.Error(err))
	} else if ok {
		return cached, nil
	}

	s.mu.RLock()
	started, q := s.started, s.queue
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	start := time.Now()
	gen := s.generation(day)
	athletes, err := s.store.Athletes(ctx, day.AddDays(-s.windowDays), day.AddDays(1))
	if err != nil {
		return nil, fmt.Errorf("listing athletes: %w", err)
	}
	if len(athletes) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d athletes, limit %d", ErrBatchTooLarge, len(athletes), s.maxBatchSize)
	}

	batch := worker.NewBatch(len(athletes))
	for i, id := range athletes {
		if err := q.Enqueue(ctx, batch.Task(i, id, day)); err != nil {
			batch.Fail(i, err)
		}
	}
	results, err := batch.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("triage for %s: %w", day, err)
	}

	ranked := triage.Rank(results)
	counts := triage.Counts(ranked)
	bySeverity := make(map[string]int, len(counts))
	for sev, n := range counts {
		bySeverity[string(sev)] = n
	}
	metrics.RecordTriageBatch(len(ranked), float64(time.Since(start).Microseconds())/1000, bySeverity)

	s.remember(ctx, day, gen, ranked)
	return ranked, nil
}

// remember caches a batch unless a write touched day since gen was read.
// A write that lands between the check and Set is caught by the re-check.
func (s *Service) remember(ctx context.Context, day model.Date, gen uint64, ranked []model.AlertResult) {
	if s.generation(day) != gen {
		return
	}
	if err := s.cache.Set(ctx, day, ranked, s.cacheTTL); err != nil {
		s.log().Warn(ctx, "cache write failed", logger.String("date", day.String()), logger.Error(err))
		return
	}
	if s.generation(day) != gen {
		if err := s.cache.Invalidate(ctx, day); err != nil {
			s.log().Warn(ctx, "cache invalidation failed", logger.Error(err))
		}
	}
}

// WeeklyLoad is the load summary of a period with the band of each day.
type WeeklyLoad struct {
	AthleteID string                `json:"athleteId"`
	From      model.Date            `json:"from"`
	To        model.Date            `json:"to"`
	Bands     map[model.Date]string `json:"bands"`
	model.WeeklyLoadSummary
}

// WeeklyLoad summarises an athlete's load over [from, to).
func (s *Service) WeeklyLoad(ctx context.Context, athleteID string, from, to model.Date) (WeeklyLoad, error) {
	if !from.Before(to) {
		return WeeklyLoad{}, fmt.Errorf("%w: from %s must be before to %s", ErrInvalidRange, from, to)
	}
	entries, err := s.store.Loads(ctx, athleteID, from, to)
	if err != nil {
		return WeeklyLoad{}, fmt.Errorf("loading loads: %w", err)
	}
	summary := load.WeeklyTotals(entries)
	bands := make(map[model.Date]string, len(summary.ByDay))
	for d, v := range summary.ByDay {
		bands[d] = load.Band(v)
	}
	return WeeklyLoad{
		AthleteID:         athleteID,
		From:              from,
		To:                to,
		Bands:             bands,
		WeeklyLoadSummary: summary,
	}, nil
}

// Workload returns the acute:chronic snapshot ending on asOf.
func (s *Service) Workload(ctx context.Context, athleteID string, asOf model.Date) (model.Workload, error) {
	entries, err := s.store.Loads(ctx, athleteID, asOf.AddDays(1-load.ChronicDays), asOf.AddDays(1))
	if err != nil {
		return model.Workload{}, fmt.Errorf("loading loads: %w", err)
	}
	return load.Workload(athleteID, entries, asOf), nil
}

// Trend returns the exponentially weighted fitness trend over [from, to).
func (s *Service) Trend(ctx context.Context, athleteID string, from, to model.Date) ([]load.TrendPoint, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: from %s must be before to %s", ErrInvalidRange, from, to)
	}
	entries, err := s.store.Loads(ctx, athleteID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading loads: %w", err)
	}
	return load.FitnessTrend(entries), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"workerCount":        s.workerCount,
		"queueSize":          s.queueSize,
		"baselineWindowDays": s.windowDays,
		"baselineMinSamples": s.minSamples,
		"maxBatchSize":       s.maxBatchSize,
		"cacheTTL":           s.cacheTTL.String(),
	}
	if !s.started {
		return stats
	}

	stats["queueLength"] = s.queue.Len()
	stats["uptime"] = s.now().Sub(s.startedAt).Round(time.Second).String()
	if counts, err := s.store.Count(context.Background()); err == nil {
		stats["athletes"] = counts.Athletes
		stats["wellnessReports"] = counts.Wellness
		stats["loadEntries"] = counts.Loads
	}
	metrics.UpdateQueueSize(s.queue.Len())
	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get().Named("service")
	}
	return l
}
