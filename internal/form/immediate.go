package form

import "context"

// Immediate saves only on an explicit submit, synchronously. Used by the
// create view and the edit modal.
type Immediate struct {
	save SaveFunc
}

// NewImmediate builds an Immediate strategy around save.
func NewImmediate(save SaveFunc) *Immediate {
	return &Immediate{save: save}
}

// Changed does nothing: edits wait for an explicit submit.
func (s *Immediate) Changed(*Form) {}

// Submit validates and, when valid, saves right away.
func (s *Immediate) Submit(ctx context.Context, f *Form) Outcome {
	draft, result := f.Prepare()
	if !result.Valid {
		return Outcome{State: StateInvalid, Result: result, Draft: draft}
	}
	course, err := s.save(ctx, draft)
	if err != nil {
		return Outcome{State: StateFailed, Result: result, Draft: draft, Err: err}
	}
	return Outcome{State: StateSaved, Result: result, Draft: draft, Course: course}
}
