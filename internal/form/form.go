// Package form is the single course form shared by the create view, the edit
// modal and the update view. What differs between them is only how a save is
// triggered, which is delegated to a Strategy.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
)

// State is the result kind of a save attempt.
type State string

const (
	// StateInvalid means validation failed and nothing was sent.
	StateInvalid State = "invalid"
	// StateUnchanged means the values match what is already stored.
	StateUnchanged State = "unchanged"
	// StateSaved means the course API accepted the record.
	StateSaved State = "saved"
	// StateFailed means the course API call failed.
	StateFailed State = "failed"
	// StateAbandoned means the owner went away while the call was in flight.
	StateAbandoned State = "abandoned"
)

// Outcome describes one save attempt.
type Outcome struct {
	State  State
	Result validation.Result
	Draft  models.CourseDraft
	Course *models.Course
	Err    error
}

// SaveFunc persists a validated draft.
type SaveFunc func(ctx context.Context, draft models.CourseDraft) (*models.Course, error)

// Strategy decides when edits are persisted.
type Strategy interface {
	// Changed runs after every field edit.
	Changed(f *Form)
	// Submit validates and persists the form.
	Submit(ctx context.Context, f *Form) Outcome
}

// Form holds the current values of a course form. It is safe for concurrent
// use.
type Form struct {
	mu        sync.Mutex
	values    models.CourseForm
	result    validation.Result
	validated bool

	validator *validation.Validator
	strategy  Strategy
}

// New creates a form with initial values.
func New(v *validation.Validator, values models.CourseForm, strategy Strategy) *Form {
	if v == nil {
		v = validation.New()
	}
	return &Form{values: values, validator: v, strategy: strategy}
}

// Values returns the current raw values.
func (f *Form) Values() models.CourseForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set updates one field and notifies the strategy. Mandatory accepts the
// strings "true" and "false".
func (f *Form) Set(field models.CourseField, value string) error {
	f.mu.Lock()
	switch field {
	case models.FieldName:
		f.values.Name = value
	case models.FieldMajor:
		f.values.Major = value
	case models.FieldCredit:
		f.values.Credit = value
	case models.FieldMandatory:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			f.mu.Unlock()
			return fmt.Errorf("mandatory must be true or false, got %q", value)
		}
		f.values.Mandatory = b
	default:
		f.mu.Unlock()
		return fmt.Errorf("unknown field %q", field)
	}
	f.mu.Unlock()

	if f.strategy != nil {
		f.strategy.Changed(f)
	}
	return nil
}

// Validate runs the validation rules on the current values and remembers the
// result for rendering.
func (f *Form) Validate() validation.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = f.validator.Validate(f.values)
	f.validated = true
	return f.result
}

// Result returns the last validation result, if any.
func (f *Form) Result() (validation.Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.validated
}

// Prepare validates the current values and returns the normalized draft.
func (f *Form) Prepare() (models.CourseDraft, validation.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = f.validator.Validate(f.values)
	f.validated = true
	return validation.Draft(f.values), f.result
}

// Submit hands the form to its strategy.
func (f *Form) Submit(ctx context.Context) Outcome {
	if f.strategy == nil {
		return Outcome{State: StateFailed, Err: fmt.Errorf("form has no save strategy")}
	}
	return f.strategy.Submit(ctx, f)
}
