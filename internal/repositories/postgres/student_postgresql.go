package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewStudentPostgreSQL(db *gorm.DB, timeout time.Duration) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db, timeout),
	}
}

// GetByStudentID retrieves a student with scores and the scored courses
func (s *StudentPostgreSQL) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	db, cancel := s.helpers.Session(ctx)
	defer cancel()

	var student models.Student
	err := db.
		Preload("Scores", orderScoresByCourse).
		Preload("Scores.Course").
		Where("student_id = ?", studentID).
		First(&student).Error
	if err != nil {
		return nil, wrapNotFound(err, "student", studentID)
	}

	return &student, nil
}

// List returns students ordered by student id. A STUDENT role filter with a
// username resolves at most one student, and only if that user exists.
func (s *StudentPostgreSQL) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, error) {
	query := func(db *gorm.DB) *gorm.DB {
		return db.
			Preload("Scores", orderScoresByCourse).
			Preload("Scores.Course").
			Order("student_id ASC")
	}

	if filters.Role != nil && *filters.Role == models.RoleStudent && filters.Username != nil && *filters.Username != "" {
		username := *filters.Username

		exists, err := s.helpers.Exists(ctx, &models.User{}, "username = ?", username)
		if err != nil {
			return nil, fmt.Errorf("failed to check user existence: %w", err)
		}
		if !exists {
			return []*models.Student{}, nil
		}

		db, cancel := s.helpers.Session(ctx)
		defer cancel()

		var students []*models.Student
		if err := query(db).Where("student_id = ?", username).Limit(1).Find(&students).Error; err != nil {
			return nil, fmt.Errorf("failed to get student: %w", err)
		}
		return students, nil
	}

	db, cancel := s.helpers.Session(ctx)
	defer cancel()

	students := []*models.Student{}
	if err := query(db).Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	return students, nil
}
