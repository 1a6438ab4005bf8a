package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-console/internal/models"
	"github.com/noah-isme/course-console/pkg/export"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the current course list for download.
type ExportService struct {
	courses courseLister
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// defaults from pkg/export.
func NewExportService(courses courseLister, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(1, 4, 3, 1.2, 1.5)
	}
	return &ExportService{courses: courses, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Export fetches the list and renders it in format.
func (s *ExportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("unsupported export format %q", format))
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	data := CourseDataset(courses)
	stamp := s.now().UTC().Format("20060102-150405")

	var body []byte
	file := &ExportFile{Filename: fmt.Sprintf("courses-%s.%s", stamp, format)}
	switch format {
	case FormatCSV:
		file.ContentType = "text/csv; charset=utf-8"
		body, err = s.csv.Render(data)
	case FormatPDF:
		file.ContentType = "application/pdf"
		body, err = s.pdf.Render(data, "Courses")
	}
	if err != nil {
		s.logger.Error("failed to render export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	file.Body = body
	return file, nil
}

// CourseDataset lays courses out as export rows in list order.
func CourseDataset(courses []models.Course) export.Dataset {
	data := export.Dataset{Headers: []string{"id", "name", "major", "credit", "mandatory"}}
	for _, c := range courses {
		data.Rows = append(data.Rows, []string{
			c.ID,
			c.Name,
			c.Major,
			strconv.Itoa(c.Credit),
			strconv.FormatBool(c.Mandatory),
		})
	}
	return data
}
