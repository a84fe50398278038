// Package seed provisions users, students, courses and scores from a TOML
// fixture file. Applying the same file twice leaves the store unchanged.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

type Fixtures struct {
	Users    []UserFixture    `toml:"users"`
	Students []StudentFixture `toml:"students"`
	Courses  []CourseFixture  `toml:"courses"`
	Scores   []ScoreFixture   `toml:"scores"`
}

type UserFixture struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	Role     string `toml:"role"`
}

type StudentFixture struct {
	StudentID string `toml:"student_id"`
	Name      string `toml:"name"`
	Gender    string `toml:"gender"`
	Major     string `toml:"major"`
	Grade     int    `toml:"grade"`
}

type CourseFixture struct {
	CourseID   string `toml:"course_id"`
	CourseName string `toml:"course_name"`
	Teacher    string `toml:"teacher"`
}

type ScoreFixture struct {
	StudentID string `toml:"student_id"`
	CourseID  string `toml:"course_id"`
	Score     int    `toml:"score"`
}

// Result counts the rows written per relation.
type Result struct {
	Users    int
	Students int
	Courses  int
	Scores   int
}

func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", path, err)
	}
	return f, nil
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks key formats, roles, score bounds and that every score
// references a declared student and course.
func (f *Fixtures) Validate() error {
	students := make(map[string]bool, len(f.Students))
	courses := make(map[string]bool, len(f.Courses))

	for _, u := range f.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("user %q: username and password are required", u.Username)
		}
		if _, ok := models.ParseRole(u.Role); !ok {
			return fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
	}
	for _, s := range f.Students {
		if !validator.IsStudentID(s.StudentID) {
			return fmt.Errorf("student %q: student id must be seven digits", s.StudentID)
		}
		students[s.StudentID] = true
	}
	for _, c := range f.Courses {
		if !validator.IsCourseID(c.CourseID) {
			return fmt.Errorf("course %q: course id must match CS plus three digits", c.CourseID)
		}
		courses[c.CourseID] = true
	}
	for _, sc := range f.Scores {
		if sc.Score < 0 || sc.Score > 100 {
			return fmt.Errorf("score %s/%s: %d out of range", sc.StudentID, sc.CourseID, sc.Score)
		}
		if !students[sc.StudentID] {
			return fmt.Errorf("score %s/%s: unknown student", sc.StudentID, sc.CourseID)
		}
		if !courses[sc.CourseID] {
			return fmt.Errorf("score %s/%s: unknown course", sc.StudentID, sc.CourseID)
		}
	}
	return nil
}

// Apply upserts the fixtures in one transaction.
func Apply(ctx context.Context, db *gorm.DB, f *Fixtures, logger *slog.Logger) (*Result, error) {
	result := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, uf := range f.Users {
			role, _ := models.ParseRole(uf.Role)
			user := models.User{Username: uf.Username, Name: uf.Name, Role: role}
			if err := user.SetPassword(uf.Password); err != nil {
				return fmt.Errorf("failed to hash password for %q: %w", uf.Username, err)
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "username"}},
				DoUpdates: clause.AssignmentColumns([]string{"password", "name", "role", "updated_at"}),
			}).Create(&user).Error; err != nil {
				return fmt.Errorf("failed to upsert user %q: %w", uf.Username, err)
			}
			result.Users++
		}

		for _, sf := range f.Students {
			student := models.Student{
				StudentID: sf.StudentID,
				Name:      sf.Name,
				Gender:    sf.Gender,
				Major:     sf.Major,
				Grade:     sf.Grade,
			}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "gender", "major", "grade", "updated_at"}),
			}).Create(&student).Error; err != nil {
				return fmt.Errorf("failed to upsert student %q: %w", sf.StudentID, err)
			}
			result.Students++
		}

		for _, cf := range f.Courses {
			course := models.Course{CourseID: cf.CourseID, CourseName: cf.CourseName, Teacher: cf.Teacher}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "course_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"course_name", "teacher", "updated_at"}),
			}).Create(&course).Error; err != nil {
				return fmt.Errorf("failed to upsert course %q: %w", cf.CourseID, err)
			}
			result.Courses++
		}

		for _, sf := range f.Scores {
			score := models.Score{StudentID: sf.StudentID, CourseID: sf.CourseID, Score: sf.Score}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
			}).Create(&score).Error; err != nil {
				return fmt.Errorf("failed to upsert score %s/%s: %w", sf.StudentID, sf.CourseID, err)
			}
			result.Scores++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Seed applied",
		"users", result.Users,
		"students", result.Students,
		"courses", result.Courses,
		"scores", result.Scores)
	return result, nil
}
