package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/readiness/internal/domain/model"
)

// MemoryStore is an in-process Store guarded by a RWMutex.
type MemoryStore struct {
	mu       sync.RWMutex
	wellness map[string]map[model.Date]model.WellnessReport
	loads    map[string][]model.LoadEntry
	nLoads   int
	closed   bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wellness: make(map[string]map[model.Date]model.WellnessReport),
		loads:    make(map[string][]model.LoadEntry),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) UpsertWellness(ctx context.Context, r model.WellnessReport) (err error) {
	defer func(start time.Time) { observe("upsert_wellness", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkWellness(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	days := s.wellness[r.AthleteID]
	if days == nil {
		days = make(map[model.Date]model.WellnessReport)
		s.wellness[r.AthleteID] = days
	}
	days[r.Date] = r
	return nil
}

func (s *MemoryStore) AddLoad(ctx context.Context, e model.LoadEntry) (out model.LoadEntry, err error) {
	defer func(start time.Time) { observe("add_load", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return e, err
	}
	e, err = prepareLoad(e)
	if err != nil {
		return e, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return e, ErrClosed
	}
	s.loads[e.AthleteID] = append(s.loads[e.AthleteID], e)
	s.nLoads++
	return e, nil
}

func (s *MemoryStore) Wellness(ctx context.Context, athleteID string, from, to model.Date) (out []model.WellnessReport, err error) {
	defer func(start time.Time) { observe("wellness", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	for day, r := range s.wellness[athleteID] {
		if !day.Before(from) && day.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Loads(ctx context.Context, athleteID string, from, to model.Date) (out []model.LoadEntry, err error) {
	defer func(start time.Time) { observe("loads", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	for _, e := range s.loads[athleteID] {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	// Stable keeps insertion order for entries of the same day.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) Athletes(ctx context.Context, from, to model.Date) (ids []string, err error) {
	defer func(start time.Time) { observe("athletes", start, err) }(time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	for id, days := range s.wellness {
		for day := range days {
			if !day.Before(from) && day.Before(to) {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Count(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Counts{}, ErrClosed
	}

	athletes := make(map[string]struct{}, len(s.wellness)+len(s.loads))
	c := Counts{Loads: s.nLoads}
	for id, days := range s.wellness {
		athletes[id] = struct{}{}
		c.Wellness += len(days)
	}
	for id := range s.loads {
		athletes[id] = struct{}{}
	}
	c.Athletes = len(athletes)
	return c, nil
}

// Close marks the store closed; later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
