package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-console/internal/models"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

// Operation labels used for metrics and logs.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

const maxErrorBody = 512

type upstreamObserver interface {
	ObserveUpstreamRequest(operation string, status int, duration time.Duration)
}

// CourseRepository talks to the remote course API at {API_ROOT}/courses.
// Every call is a single request: there is no retry and no caching.
type CourseRepository struct {
	baseURL string
	client  *http.Client
	metrics upstreamObserver
	logger  *zap.Logger
}

// NewCourseRepository constructs a repository for apiRoot. A nil client uses
// http.DefaultClient.
func NewCourseRepository(apiRoot string, client *http.Client, metrics upstreamObserver, logger *zap.Logger) *CourseRepository {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseRepository{
		baseURL: strings.TrimRight(apiRoot, "/") + "/courses",
		client:  client,
		metrics: metrics,
		logger:  logger,
	}
}

// List returns every course in the order the API returns them.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.do(ctx, OpList, http.MethodGet, r.baseURL, nil, &courses); err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// FindByID fetches one course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	target, err := r.itemURL(id)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := r.do(ctx, OpGet, http.MethodGet, target, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create posts a new course; the API assigns the id.
func (r *CourseRepository) Create(ctx context.Context, draft models.CourseDraft) (*models.Course, error) {
	var course models.Course
	if err := r.do(ctx, OpCreate, http.MethodPost, r.baseURL, draft, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Update replaces the stored course with draft. All fields are always sent.
func (r *CourseRepository) Update(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error) {
	target, err := r.itemURL(id)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := r.do(ctx, OpUpdate, http.MethodPut, target, draft, &course); err != nil {
		return nil, err
	}
	if course.ID == "" {
		course.ID = id
	}
	return &course, nil
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	target, err := r.itemURL(id)
	if err != nil {
		return err
	}
	return r.do(ctx, OpDelete, http.MethodDelete, target, nil, nil)
}

func (r *CourseRepository) itemURL(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return r.baseURL + "/" + url.PathEscape(id), nil
}

func (r *CourseRepository) do(ctx context.Context, op, method, target string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode course")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build course request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		r.observe(op, 0, duration)
		r.logger.Warn("course api request failed", zap.String("operation", op), zap.String("url", target), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("failed to %s course", op))
	}
	defer resp.Body.Close()
	r.observe(op, resp.StatusCode, duration)

	if resp.StatusCode == http.StatusNotFound {
		r.logger.Debug("course not found", zap.String("operation", op), zap.String("url", target))
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		r.logger.Warn("course api returned error status",
			zap.String("operation", op),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		cause := fmt.Errorf("%s %s: status %d", method, target, resp.StatusCode)
		return appErrors.Wrap(cause, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("failed to %s course", op))
	}

	r.logger.Debug("course api request", zap.String("operation", op), zap.Int("status", resp.StatusCode), zap.Duration("latency", duration))

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF && method != http.MethodGet {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("failed to decode %s response", op))
	}
	return nil
}

func (r *CourseRepository) observe(op string, status int, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.ObserveUpstreamRequest(op, status, duration)
	}
}
