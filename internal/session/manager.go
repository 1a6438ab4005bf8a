package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/validation"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

type courseStore interface {
	Get(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error)
}

// Observer receives session metrics.
type Observer interface {
	ObserveAutosave(outcome string)
	SetActiveSessions(n int)
}

type noopObserver struct{}

func (noopObserver) ObserveAutosave(string) {}
func (noopObserver) SetActiveSessions(int)  {}

// Config tunes the manager.
type Config struct {
	Delay           time.Duration
	IdleTTL         time.Duration
	CleanupInterval time.Duration

	Validator *validation.Validator
	AfterFunc AfterFunc
	Now       func() time.Time
}

// Manager keeps the open edit sessions.
type Manager struct {
	store    courseStore
	cfg      Config
	observer Observer
	logger   *zap.Logger

	root       context.Context
	cancelRoot context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session

	janitorMu sync.Mutex
	stop      context.CancelFunc
	wg        sync.WaitGroup
}

// NewManager builds a session manager over store.
func NewManager(store courseStore, cfg Config, observer Observer, logger *zap.Logger) *Manager {
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = RealAfterFunc
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	root, cancel := context.WithCancel(context.Background())
	return &Manager{
		store:      store,
		cfg:        cfg,
		observer:   observer,
		logger:     logger,
		root:       root,
		cancelRoot: cancel,
		sessions:   make(map[string]*Session),
	}
}

// Open fetches the course and starts a session with the fetched record as
// baseline.
func (m *Manager) Open(ctx context.Context, courseID string) (*Session, error) {
	course, err := m.store.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.ID == "" {
		course.ID = courseID
	}

	s := newSession(m.root, uuid.NewString(), *course, m.store, m.cfg, m.observer, m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.observer.SetActiveSessions(n)
	m.logger.Debug("edit session opened", zap.String("session_id", s.ID), zap.String("course_id", s.CourseID))
	return s, nil
}

// Get returns an open session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "edit session not found")
	}
	return s, nil
}

// Close ends a session. Closing an unknown session is a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	m.observer.SetActiveSessions(n)
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Start boots the janitor that closes idle sessions. Safe to call once.
func (m *Manager) Start(ctx context.Context) {
	m.janitorMu.Lock()
	defer m.janitorMu.Unlock()
	if m.stop != nil || m.cfg.CleanupInterval <= 0 || m.cfg.IdleTTL <= 0 {
		return
	}
	ctx, m.stop = context.WithCancel(ctx)
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Reap()
			}
		}
	}()
	m.logger.Sugar().Infow("session janitor started", "interval", m.cfg.CleanupInterval, "idle_ttl", m.cfg.IdleTTL)
}

// Reap closes sessions not touched within the idle TTL and returns how many
// were closed.
func (m *Manager) Reap() int {
	if m.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := m.cfg.Now().Add(-m.cfg.IdleTTL)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		m.observer.SetActiveSessions(n)
		m.logger.Sugar().Infow("idle edit sessions closed", "count", len(idle))
	}
	return len(idle)
}

// Shutdown stops the janitor and closes every session.
func (m *Manager) Shutdown() {
	m.janitorMu.Lock()
	if m.stop != nil {
		m.stop()
	}
	m.janitorMu.Unlock()
	m.wg.Wait()

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	m.cancelRoot()
	m.observer.SetActiveSessions(0)
}
