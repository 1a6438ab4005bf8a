package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-console/internal/courseapitest"
	"github.com/noah-isme/course-console/internal/models"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveUpstreamRequest(operation string, status int, duration time.Duration) {
	o.calls = append(o.calls, operation+":"+http.StatusText(status))
}

func seed() []models.Course {
	return []models.Course{
		{ID: "1", Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true},
		{ID: "2", Name: "Linear Algebra", Major: "Math", Credit: 2, Mandatory: false},
	}
}

func TestCourseRepositoryList(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	obs := &recordingObserver{}
	repo := NewCourseRepository(api.Root(), api.Client(), obs, nil)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seed(), courses)
	assert.Equal(t, []string{"list:OK"}, obs.calls)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/courses", reqs[0].Path)
}

func TestCourseRepositoryListEmpty(t *testing.T) {
	api := courseapitest.NewServer(t)
	repo := NewCourseRepository(api.Root()+"/", api.Client(), nil, nil)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	_, err := repo.FindByID(context.Background(), "99")
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFound))
}

func TestCourseRepositoryBlankIDSkipsNetwork(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	_, err := repo.FindByID(context.Background(), "  ")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrNotFound))
	assert.Empty(t, api.Requests())
}

func TestCourseRepositoryCreateSendsDraft(t *testing.T) {
	api := courseapitest.NewServer(t)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	course, err := repo.Create(context.Background(), models.CourseDraft{Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true})
	require.NoError(t, err)
	assert.Equal(t, "1", course.ID)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.JSONEq(t, `{"name":"Algorithms","major":"CS","credit":3,"mandatory":true}`, reqs[0].Body)
}

func TestCourseRepositoryUpdateSendsFullRecord(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	course, err := repo.Update(context.Background(), "2", models.CourseDraft{Name: "Linear Algebra II", Major: "Math", Credit: 3})
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra II", course.Name)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/api/courses/2", reqs[0].Path)
	assert.JSONEq(t, `{"name":"Linear Algebra II","major":"Math","credit":3,"mandatory":false}`, reqs[0].Body)
}

func TestCourseRepositoryDelete(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	require.NoError(t, repo.Delete(context.Background(), "1"))
	_, ok := api.Course("1")
	assert.False(t, ok)
}

func TestCourseRepositoryMapsServerErrors(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	obs := &recordingObserver{}
	repo := NewCourseRepository(api.Root(), api.Client(), obs, nil)

	api.FailNext(http.MethodDelete, http.StatusInternalServerError)
	err := repo.Delete(context.Background(), "1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, 1, api.Count(http.MethodDelete))
}

func TestCourseRepositoryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	root := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	repo := NewCourseRepository(root, nil, obs, nil)
	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUpstream))
	require.Len(t, obs.calls, 1)
}

func TestCourseRepositoryHonoursContext(t *testing.T) {
	api := courseapitest.NewServer(t, seed()...)
	repo := NewCourseRepository(api.Root(), api.Client(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.List(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
