package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type ScorePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewScorePostgreSQL(db *gorm.DB, timeout time.Duration) repositories.ScoreRepository {
	return &ScorePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db, timeout),
	}
}

// ListByCourse returns the course's score rows with the student subset
// (student id, name, major) loaded
func (s *ScorePostgreSQL) ListByCourse(ctx context.Context, courseID string) ([]*models.Score, error) {
	db, cancel := s.helpers.Session(ctx)
	defer cancel()

	scores := []*models.Score{}
	err := db.
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "student_id", "name", "major")
		}).
		Where("course_id = ?", courseID).
		Scopes(orderScoresByStudent).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scores by course: %w", err)
	}

	return scores, nil
}
