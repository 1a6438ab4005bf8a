// Package session runs update-form edit sessions: the server-side half of the
// update view that holds the current field values, the baseline and the
// debounced autosave timer between keystrokes.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-console/internal/form"
	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

// NoticeSaveFailed is queued when an autosave is rejected by the course API.
const NoticeSaveFailed = "failed to save course"

// Status is the lifecycle stage of a session. The loading stage is the
// baseline fetch inside Manager.Open, before a session exists.
type Status string

const (
	StatusReady  Status = "ready"
	StatusClosed Status = "closed"
)

// State is the view of a session returned to the update page.
type State struct {
	ID          string             `json:"id"`
	CourseID    string             `json:"course_id"`
	Status      Status             `json:"status"`
	Fields      models.CourseForm  `json:"fields"`
	Validation  *validation.Result `json:"validation,omitempty"`
	ChangeCount int                `json:"change_count"`
	Pending     bool               `json:"pending"`
	Notices     []string           `json:"notices"`
}

// Session is one open update form.
type Session struct {
	ID       string
	CourseID string

	form      *form.Form
	autosave  *form.Debounced
	debouncer *Debouncer
	store     courseStore
	observer  Observer
	logger    *zap.Logger
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	status   Status
	saving   bool
	notices  []string
	lastSeen time.Time
}

func newSession(parent context.Context, id string, course models.Course, store courseStore, cfg Config, observer Observer, logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:        id,
		CourseID:  course.ID,
		debouncer: NewDebouncer(cfg.Delay, cfg.AfterFunc),
		store:     store,
		observer:  observer,
		logger:    logger.With(zap.String("session_id", id), zap.String("course_id", course.ID)),
		now:       cfg.Now,
		ctx:       ctx,
		cancel:    cancel,
		status:    StatusReady,
		lastSeen:  cfg.Now(),
	}
	s.autosave = form.NewDebounced(ctx, course.Draft(), s.debouncer, s.save, s.record)
	s.form = form.New(cfg.Validator, models.FormFromCourse(course), s.autosave)
	return s
}

func (s *Session) save(ctx context.Context, draft models.CourseDraft) (*models.Course, error) {
	s.mu.Lock()
	s.saving = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()
	return s.store.Update(ctx, s.CourseID, draft)
}

func (s *Session) record(outcome form.Outcome) {
	s.observer.ObserveAutosave(string(outcome.State))

	switch outcome.State {
	case form.StateSaved:
		s.logger.Debug("autosave stored", zap.Int("change_count", s.autosave.Count()))
	case form.StateFailed:
		s.logger.Warn("autosave failed", zap.Error(outcome.Err))
		s.mu.Lock()
		if s.status != StatusClosed {
			s.notices = append(s.notices, NoticeSaveFailed)
		}
		s.mu.Unlock()
	case form.StateAbandoned:
		s.logger.Debug("autosave abandoned")
	default:
		s.logger.Debug("autosave skipped", zap.String("outcome", string(outcome.State)))
	}
}

// Apply stores one field change and re-arms the autosave timer.
func (s *Session) Apply(field models.CourseField, value string) (State, error) {
	if err := s.touch(); err != nil {
		return State{}, err
	}
	if err := s.form.Set(field, value); err != nil {
		return State{}, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, appErrors.ErrBadRequest.Status, err.Error())
	}
	return s.State(), nil
}

// Validate runs the validation rules against the current values. Used on
// blur.
func (s *Session) Validate() (validation.Result, error) {
	if err := s.touch(); err != nil {
		return validation.Result{}, err
	}
	return s.form.Validate(), nil
}

// State returns the current view of the session and drains queued notices.
// Polling it keeps the session alive.
func (s *Session) State() State {
	var result *validation.Result
	if r, ok := s.form.Result(); ok {
		result = &r
	}

	s.mu.Lock()
	notices := s.notices
	s.notices = nil
	status := s.status
	if status != StatusClosed {
		s.lastSeen = s.now()
	}
	saving := s.saving
	s.mu.Unlock()

	if notices == nil {
		notices = []string{}
	}
	return State{
		ID:          s.ID,
		CourseID:    s.CourseID,
		Status:      status,
		Fields:      s.form.Values(),
		Validation:  result,
		ChangeCount: s.autosave.Count(),
		Pending:     saving || s.debouncer.Pending(),
		Notices:     notices,
	}
}

// ChangeCount returns the number of successful autosaves.
func (s *Session) ChangeCount() int {
	return s.autosave.Count()
}

// Baseline returns the record last known to be stored.
func (s *Session) Baseline() models.CourseDraft {
	return s.autosave.Baseline()
}

// Close cancels the pending timer and any in-flight save. It is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.status == StatusClosed {
		s.mu.Unlock()
		return
	}
	s.status = StatusClosed
	s.mu.Unlock()

	s.debouncer.Stop()
	s.cancel()
	s.logger.Debug("edit session closed")
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status == StatusClosed
}

func (s *Session) touch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusClosed {
		return appErrors.ErrSessionClosed
	}
	s.lastSeen = s.now()
	return nil
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
