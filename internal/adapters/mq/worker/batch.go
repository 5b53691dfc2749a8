package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/readiness/internal/domain/model"
)

// Batch collects the results of n tasks by index and releases Wait once every
// task has completed. It is the barrier between per-athlete assessment and
// the final triage sort.
type Batch struct {
	mu        sync.Mutex
	results   []model.AlertResult
	errs      []error
	filled    []bool
	remaining int
	done      chan struct{}
}

// NewBatch creates a batch expecting n results.
func NewBatch(n int) *Batch {
	b := &Batch{
		results:   make([]model.AlertResult, n),
		errs:      make([]error, n),
		filled:    make([]bool, n),
		remaining: n,
		done:      make(chan struct{}),
	}
	if n == 0 {
		close(b.done)
	}
	return b
}

// Task builds the queue task for slot index.
func (b *Batch) Task(index int, athleteID string, day model.Date) model.Task {
	return model.Task{
		Index:     index,
		AthleteID: athleteID,
		Date:      day,
		Complete:  func(res model.AlertResult, err error) { b.complete(index, res, err) },
	}
}

// Fail completes slot index with err, e.g. when it could not be enqueued.
func (b *Batch) Fail(index int, err error) {
	b.complete(index, model.AlertResult{}, err)
}

func (b *Batch) complete(index int, res model.AlertResult, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.results) || b.filled[index] {
		return
	}
	b.filled[index] = true
	b.results[index] = res
	b.errs[index] = err
	b.remaining--
	if b.remaining == 0 {
		close(b.done)
	}
}

// Wait blocks until every slot is complete or ctx is done. Results keep
// submission order. The returned error joins every per-task failure.
func (b *Batch) Wait(ctx context.Context) ([]model.AlertResult, error) {
	select {
	case <-b.done:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for batch: %w", ctx.Err())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.AlertResult, len(b.results))
	copy(out, b.results)
	return out, errors.Join(b.errs...)
}
