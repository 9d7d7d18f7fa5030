package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/poly-routine-api/internal/models"
	appErrors "github.com/noah-isme/poly-routine-api/pkg/errors"
)

type departmentLister interface {
	List(ctx context.Context) ([]models.Department, error)
}

type teacherLister interface {
	List(ctx context.Context, filter models.TeacherListFilter) ([]models.Teacher, int, error)
}

// ReferenceService serves the read-only lookups the routine views need at
// start-up: the department list and the active-teacher roster. It plays no
// part in the scheduling algorithm itself.
type ReferenceService struct {
	departments departmentLister
	teachers    teacherLister
	logger      *zap.Logger
}

// NewReferenceService constructs the reference-data service.
func NewReferenceService(departments departmentLister, teachers teacherLister, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{departments: departments, teachers: teachers, logger: logger}
}

// ListDepartments returns every department.
func (s *ReferenceService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list departments")
	}
	return departments, nil
}

// ListTeachers returns the teacher roster with pagination metadata.
func (s *ReferenceService) ListTeachers(ctx context.Context, filter models.TeacherListFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return teachers, pagination, nil
}
