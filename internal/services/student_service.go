package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/policy"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type studentService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the students visible to principal. A student principal is
// always narrowed to their own record whatever params say; staff filters are
// passed through.
func (s *studentService) List(ctx context.Context, principal *models.Principal, params StudentListParams) ([]*models.Student, error) {
	if principal == nil || !principal.Role.Valid() {
		return []*models.Student{}, nil
	}

	filters := repositories.StudentFilters{}
	if principal.Role == models.RoleStudent {
		role := models.RoleStudent
		username := principal.Username
		filters.Role = &role
		filters.Username = &username
	} else {
		if role, ok := models.ParseRole(params.Role); ok {
			filters.Role = &role
		}
		if params.Username != "" {
			username := params.Username
			filters.Username = &username
		}
	}

	students, err := s.repo.Student().List(ctx, filters)
	if err != nil {
		return nil, storeError("failed to list students", err)
	}

	visible := policy.VisibleStudents(principal, students)
	s.logger.Debug("Listed students", "role", principal.Role, "count", len(visible))
	return visible, nil
}

type courseService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		logger: logger,
	}
}

func (s *courseService) List(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.repo.Course().List(ctx)
	if err != nil {
		return nil, storeError("failed to list courses", err)
	}
	return courses, nil
}
