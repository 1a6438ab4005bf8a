package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-console/internal/models"
	appErrors "github.com/noah-isme/course-console/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, draft models.CourseDraft) (*models.Course, error)
	Update(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}

// CourseService is the entry point views use to reach the course API.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns all courses. On failure it logs and returns an empty slice
// together with the error so callers can render the empty state.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("failed to list courses", zap.Error(err))
		return []models.Course{}, err
	}
	return courses, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to load course", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// Create submits a new course.
func (s *CourseService) Create(ctx context.Context, draft models.CourseDraft) (*models.Course, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logger.Warn("failed to create course", zap.Error(err))
		return nil, err
	}
	s.logger.Info("course created", zap.String("course_id", course.ID))
	return course, nil
}

// Update replaces the stored record of id with draft.
func (s *CourseService) Update(ctx context.Context, id string, draft models.CourseDraft) (*models.Course, error) {
	if err := s.validator.Struct(draft); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		s.logger.Warn("failed to update course", zap.String("course_id", id), zap.Error(err))
		return nil, err
	}
	s.logger.Info("course updated", zap.String("course_id", id))
	return course, nil
}

// Delete removes a course.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete course", zap.String("course_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("course deleted", zap.String("course_id", id))
	return nil
}
