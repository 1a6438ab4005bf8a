package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-console/internal/models"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

func TestExportServiceCSV(t *testing.T) {
	repo := newMockCourseRepo(
		models.Course{ID: "1", Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true},
		models.Course{ID: "2", Name: "Statistics", Major: "Math", Credit: 2},
	)
	svc := NewExportService(NewCourseService(repo, nil, nil), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	file, err := svc.Export(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "courses-20260301-093000.csv", file.Filename)
	assert.Equal(t, "id,name,major,credit,mandatory\n1,Algorithms,CS,3,true\n2,Statistics,Math,2,false\n", string(file.Body))
}

func TestExportServicePDF(t *testing.T) {
	repo := newMockCourseRepo(models.Course{ID: "1", Name: "Algorithms", Major: "CS", Credit: 3, Mandatory: true})
	svc := NewExportService(NewCourseService(repo, nil, nil), nil, nil, nil)

	file, err := svc.Export(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF-")))
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(NewCourseService(newMockCourseRepo(), nil, nil), nil, nil, nil)

	_, err := svc.Export(context.Background(), "xlsx")
	assert.True(t, appErrors.IsCode(err, appErrors.ErrBadRequest))
}

func TestExportServiceListFailure(t *testing.T) {
	repo := newMockCourseRepo()
	repo.listErr = appErrors.Clone(appErrors.ErrUpstream, "")
	svc := NewExportService(NewCourseService(repo, nil, nil), nil, nil, nil)

	_, err := svc.Export(context.Background(), FormatCSV)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrUpstream))
}
