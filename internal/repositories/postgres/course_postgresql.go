package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewCoursePostgreSQL(db *gorm.DB, timeout time.Duration) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db, timeout),
	}
}

func (c *CoursePostgreSQL) GetByCourseID(ctx context.Context, courseID string) (*models.Course, error) {
	db, cancel := c.helpers.Session(ctx)
	defer cancel()

	var course models.Course
	if err := db.Where("course_id = ?", courseID).First(&course).Error; err != nil {
		return nil, wrapNotFound(err, "course", courseID)
	}

	return &course, nil
}

// List returns every course with its score count
func (c *CoursePostgreSQL) List(ctx context.Context) ([]*models.Course, error) {
	db, cancel := c.helpers.Session(ctx)
	defer cancel()

	courses := []*models.Course{}
	if err := db.Order("course_id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	type countRow struct {
		CourseID string
		Total    int64
	}
	var counts []countRow
	if err := db.Model(&models.Score{}).
		Select("course_id, COUNT(*) AS total").
		Group("course_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count course scores: %w", err)
	}

	byCourse := make(map[string]int64, len(counts))
	for _, row := range counts {
		byCourse[row.CourseID] = row.Total
	}
	for _, course := range courses {
		course.ScoreCount = byCourse[course.CourseID]
	}

	return courses, nil
}
