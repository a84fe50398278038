package repositories

import (
	"context"

	"github.com/SAP-F-2025/score-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// StudentFilters narrows ListStudents. When Role is STUDENT and Username is
// set, at most the student whose student id equals Username is returned.
type StudentFilters struct {
	Role     *models.UserRole `json:"role"`
	Username *string          `json:"username"`
}

type UserFilters struct {
	Role *models.UserRole `json:"role"`
}

// ===== REPOSITORIES =====

type StudentRepository interface {
	// GetByStudentID returns the student with scores and their courses.
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	List(ctx context.Context, filters StudentFilters) ([]*models.Student, error)
}

type CourseRepository interface {
	GetByCourseID(ctx context.Context, courseID string) (*models.Course, error)
	// List returns all courses ordered by course id, with ScoreCount filled.
	List(ctx context.Context) ([]*models.Course, error)
}

type ScoreRepository interface {
	// ListByCourse returns the course's scores joined with their students.
	ListByCourse(ctx context.Context, courseID string) ([]*models.Score, error)
}

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByName returns the first user (lowest id) with the given display name.
	GetByName(ctx context.Context, name string) (*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, error)
}
