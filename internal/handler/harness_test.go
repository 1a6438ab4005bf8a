package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-console/internal/courseapitest"
	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/internal/repository"
	"github.com/noah-isme/course-console/internal/service"
	"github.com/noah-isme/course-console/internal/session"
	"github.com/noah-isme/course-console/internal/validation"
	"github.com/noah-isme/course-console/internal/web"
	"github.com/noah-isme/course-console/pkg/flash"
)

var seedCourses = []models.Course{
	{ID: "1", Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true},
	{ID: "2", Name: "Painting", Major: "Arts", Credit: 2, Mandatory: false},
}

type manualTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// manualClock hands out timers that only fire when the test says so.
type manualClock struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualClock) AfterFunc(_ time.Duration, fn func()) session.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

func (m *manualClock) fire() {
	m.mu.Lock()
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

type harness struct {
	t       *testing.T
	api     *courseapitest.Server
	router  *gin.Engine
	manager *session.Manager
	clock   *manualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := courseapitest.NewServer(t, seedCourses...)
	repo := repository.NewCourseRepository(api.Root(), api.Client(), nil, nil)
	courses := service.NewCourseService(repo, validator.New(), nil)
	v := validation.New()
	messages := flash.New(flash.NewCookieStore([]byte("handler-test-secret-0123456789ab"), 10*time.Minute), nil)

	clock := &manualClock{}
	manager := session.NewManager(courses, session.Config{
		Delay:     500 * time.Millisecond,
		Validator: v,
		AfterFunc: clock.AfterFunc,
	}, nil, nil)
	t.Cleanup(manager.Shutdown)

	templates, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	Register(router, templates, Routes{
		APIPrefix:      "/api/v1",
		Views:          NewCourseViewHandler(courses, v, messages, "/api/v1", true),
		Sessions:       NewSessionHandler(manager, messages),
		Validation:     NewValidationHandler(v),
		Metrics:        NewMetricsHandler(service.NewMetricsService(), manager),
		Export:         NewExportHandler(service.NewExportService(courses, nil, nil, nil), messages),
		MetricsEnabled: true,
	})

	return &harness{t: t, api: api, router: router, manager: manager, clock: clock}
}

func (h *harness) do(method, path string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return h.do(http.MethodGet, path, nil, "", cookies...)
}

func (h *harness) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (h *harness) sendJSON(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	return h.do(method, path, reader, "application/json")
}

// follow replays a redirect the way a browser would, carrying its cookies.
func (h *harness) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	h.t.Helper()
	require.Equal(h.t, http.StatusSeeOther, w.Code)
	return h.get(w.Header().Get("Location"), w.Result().Cookies()...)
}

func courseValues(name, major, credit string, mandatory bool) url.Values {
	v := url.Values{"name": {name}, "major": {major}, "credit": {credit}}
	if mandatory {
		v.Set("mandatory", "true")
	}
	return v
}
