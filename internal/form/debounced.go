package form

import (
	"context"
	"sync"

	"github.com/noah-isme/course-console/internal/models"
)

// Scheduler runs fn once after a quiet period, replacing any run scheduled
// earlier.
type Scheduler interface {
	Schedule(fn func())
}

// Debounced saves after edits settle. Each change re-arms the scheduler; when
// it fires the form is validated and compared against the baseline, the last
// record known to be stored. Invalid or unchanged values are dropped without a
// network call.
type Debounced struct {
	ctx       context.Context
	scheduler Scheduler
	save      SaveFunc
	onOutcome func(Outcome)

	// saveMu keeps at most one save in flight so writes land in edit order.
	saveMu   sync.Mutex
	mu       sync.Mutex
	baseline models.CourseDraft
	count    int
}

// NewDebounced builds a Debounced strategy. ctx bounds every save; cancelling
// it discards in-flight results. onOutcome may be nil.
func NewDebounced(ctx context.Context, baseline models.CourseDraft, scheduler Scheduler, save SaveFunc, onOutcome func(Outcome)) *Debounced {
	return &Debounced{
		ctx:       ctx,
		scheduler: scheduler,
		save:      save,
		onOutcome: onOutcome,
		baseline:  baseline,
	}
}

// Changed re-arms the scheduler.
func (s *Debounced) Changed(f *Form) {
	s.scheduler.Schedule(func() {
		outcome := s.Submit(s.ctx, f)
		if s.onOutcome != nil {
			s.onOutcome(outcome)
		}
	})
}

// Submit validates, suppresses no-op writes and saves. On success the change
// count grows by one and the baseline moves to the saved draft.
func (s *Debounced) Submit(ctx context.Context, f *Form) Outcome {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if ctx.Err() != nil {
		return Outcome{State: StateAbandoned, Err: ctx.Err()}
	}

	draft, result := f.Prepare()
	if !result.Valid {
		return Outcome{State: StateInvalid, Result: result, Draft: draft}
	}
	if draft == s.Baseline() {
		return Outcome{State: StateUnchanged, Result: result, Draft: draft}
	}

	course, err := s.save(ctx, draft)
	if ctx.Err() != nil {
		return Outcome{State: StateAbandoned, Result: result, Draft: draft, Err: ctx.Err()}
	}
	if err != nil {
		return Outcome{State: StateFailed, Result: result, Draft: draft, Err: err}
	}

	s.mu.Lock()
	s.baseline = draft
	s.count++
	s.mu.Unlock()
	return Outcome{State: StateSaved, Result: result, Draft: draft, Course: course}
}

// Baseline returns the last stored record.
func (s *Debounced) Baseline() models.CourseDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline
}

// Count returns the number of successful saves.
func (s *Debounced) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
