// Package courseapitest provides an in-memory stand-in for the remote course
// API, recording every request it receives.
package courseapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/noah-isme/course-console/internal/models"
)

// Request is one call received by the fake API.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Server is a fake {API_ROOT}/courses endpoint.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	courses  []models.Course
	nextID   int
	requests []Request
	failures map[string]int
	gate     chan struct{}
}

// NewServer starts a fake API seeded with courses and closes it at test end.
func NewServer(t testing.TB, seed ...models.Course) *Server {
	t.Helper()
	s := &Server{failures: map[string]int{}, nextID: 1}
	for _, c := range seed {
		s.courses = append(s.courses, c)
		if n, err := strconv.Atoi(c.ID); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Root returns the API root to configure clients with.
func (s *Server) Root() string {
	return s.URL + "/api"
}

// FailNext makes the next call with method answer with status.
func (s *Server) FailNext(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = status
}

// Hold blocks every following request until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks held requests.
func (s *Server) Release() {
	s.mu.Lock()
	gate := s.gate
	s.gate = nil
	s.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests used method.
func (s *Server) Count(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// Course returns the stored course with id.
func (s *Server) Course(id string) (models.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, true
		}
	}
	return models.Course{}, false
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	gate := s.gate
	status, fail := s.failures[r.Method]
	delete(s.failures, r.Method)
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		w.WriteHeader(status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/courses")
	id := strings.TrimPrefix(path, "/")
	switch {
	case path == "" && r.Method == http.MethodGet:
		s.list(w)
	case path == "" && r.Method == http.MethodPost:
		s.create(w, body)
	case id != "" && r.Method == http.MethodGet:
		s.get(w, id)
	case id != "" && r.Method == http.MethodPut:
		s.update(w, id, body)
	case id != "" && r.Method == http.MethodDelete:
		s.delete(w, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) list(w http.ResponseWriter) {
	s.mu.Lock()
	out := make([]models.Course, len(s.courses))
	copy(out, s.courses)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) get(w http.ResponseWriter, id string) {
	c, ok := s.Course(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) create(w http.ResponseWriter, body []byte) {
	var draft models.CourseDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	c := models.Course{ID: strconv.Itoa(s.nextID), Name: draft.Name, Major: draft.Major, Credit: draft.Credit, Mandatory: draft.Mandatory}
	s.nextID++
	s.courses = append(s.courses, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) update(w http.ResponseWriter, id string, body []byte) {
	var draft models.CourseDraft
	if err := json.Unmarshal(body, &draft); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.courses {
		if c.ID == id {
			s.courses[i] = models.Course{ID: id, Name: draft.Name, Major: draft.Major, Credit: draft.Credit, Mandatory: draft.Mandatory}
			writeJSON(w, http.StatusOK, s.courses[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, "Not found")
}

func (s *Server) delete(w http.ResponseWriter, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.courses {
		if c.ID == id {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, "Not found")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
