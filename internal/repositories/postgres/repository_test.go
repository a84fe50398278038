package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

// setupTestDB creates an in-memory SQLite database with the schema and a
// small fixture set.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}, &models.Course{}, &models.Score{}))

	users := []models.User{
		{Username: "admin", Name: "Admin", Role: models.RoleAdmin, PasswordHash: []byte("x")},
		{Username: "2024001", Name: "Zhang San", Role: models.RoleStudent, PasswordHash: []byte("x")},
		{Username: "2024003", Name: "Zhang San", Role: models.RoleStudent, PasswordHash: []byte("x")},
	}
	require.NoError(t, db.Create(&users).Error)

	students := []models.Student{
		{StudentID: "2024002", Name: "Li Si", Gender: "F", Major: "Mathematics", Grade: 2024},
		{StudentID: "2024001", Name: "Zhang San", Gender: "M", Major: "Computer Science", Grade: 2024},
	}
	require.NoError(t, db.Create(&students).Error)

	courses := []models.Course{
		{CourseID: "CS002", CourseName: "Data Structures", Teacher: "Wang"},
		{CourseID: "CS001", CourseName: "Computer Basics", Teacher: "Li"},
		{CourseID: "CS003", CourseName: "Operating Systems", Teacher: "Zhao"},
	}
	require.NoError(t, db.Create(&courses).Error)

	scores := []models.Score{
		{StudentID: "2024001", CourseID: "CS002", Score: 92},
		{StudentID: "2024001", CourseID: "CS001", Score: 85},
		{StudentID: "2024002", CourseID: "CS001", Score: 58},
	}
	require.NoError(t, db.Create(&scores).Error)

	return db
}

func newTestRepository(t *testing.T) repositories.Repository {
	return NewPostgreSQLRepository(RepositoryConfig{
		DB:           setupTestDB(t),
		StoreTimeout: time.Second,
	})
}

func TestStudentPostgreSQL_GetByStudentID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	student, err := repo.Student().GetByStudentID(ctx, "2024001")
	require.NoError(t, err)
	assert.Equal(t, "Zhang San", student.Name)
	require.Len(t, student.Scores, 2)
	assert.Equal(t, "CS001", student.Scores[0].CourseID)
	assert.Equal(t, 85, student.Scores[0].Score)
	require.NotNil(t, student.Scores[0].Course)
	assert.Equal(t, "Computer Basics", student.Scores[0].Course.CourseName)
	assert.Equal(t, "CS002", student.Scores[1].CourseID)
	assert.Equal(t, "Wang", student.Scores[1].Course.Teacher)

	_, err = repo.Student().GetByStudentID(ctx, "9999999")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestStudentPostgreSQL_List(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	student := models.RoleStudent
	teacher := models.RoleTeacher

	str := func(s string) *string { return &s }

	testCases := []struct {
		name     string
		filters  repositories.StudentFilters
		expected []string
	}{
		{
			name:     "no filter returns all ordered by student id",
			filters:  repositories.StudentFilters{},
			expected: []string{"2024001", "2024002"},
		},
		{
			name:     "student role resolves own record",
			filters:  repositories.StudentFilters{Role: &student, Username: str("2024001")},
			expected: []string{"2024001"},
		},
		{
			name:     "student role without matching user is empty",
			filters:  repositories.StudentFilters{Role: &student, Username: str("2024002")},
			expected: []string{},
		},
		{
			name:     "student user without student record is empty",
			filters:  repositories.StudentFilters{Role: &student, Username: str("2024003")},
			expected: []string{},
		},
		{
			name:     "non-student role ignores username",
			filters:  repositories.StudentFilters{Role: &teacher, Username: str("2024001")},
			expected: []string{"2024001", "2024002"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			students, err := repo.Student().List(ctx, tc.filters)
			require.NoError(t, err)

			ids := make([]string, 0, len(students))
			for _, s := range students {
				ids = append(ids, s.StudentID)
			}
			assert.Equal(t, tc.expected, ids)
		})
	}
}

func TestScorePostgreSQL_ListByCourse(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	scores, err := repo.Score().ListByCourse(ctx, "CS001")
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "2024001", scores[0].StudentID)
	require.NotNil(t, scores[0].Student)
	assert.Equal(t, "Zhang San", scores[0].Student.Name)
	assert.Equal(t, "Computer Science", scores[0].Student.Major)
	assert.Equal(t, "2024002", scores[1].StudentID)
	assert.Equal(t, 58, scores[1].Score)

	empty, err := repo.Score().ListByCourse(ctx, "CS003")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScore_UniquePerStudentAndCourse(t *testing.T) {
	db := setupTestDB(t)

	err := db.Create(&models.Score{StudentID: "2024001", CourseID: "CS001", Score: 70}).Error
	assert.Error(t, err)
}

func TestCoursePostgreSQL(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	course, err := repo.Course().GetByCourseID(ctx, "CS003")
	require.NoError(t, err)
	assert.Equal(t, "Operating Systems", course.CourseName)

	_, err = repo.Course().GetByCourseID(ctx, "CS999")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	courses, err := repo.Course().List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 3)
	assert.Equal(t, "CS001", courses[0].CourseID)
	assert.Equal(t, int64(2), courses[0].ScoreCount)
	assert.Equal(t, int64(1), courses[1].ScoreCount)
	assert.Equal(t, int64(0), courses[2].ScoreCount)
}

func TestUserPostgreSQL(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user, err := repo.User().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	byName, err := repo.User().GetByName(ctx, "Zhang San")
	require.NoError(t, err)
	assert.Equal(t, "2024001", byName.Username, "lowest id wins on duplicate names")

	_, err = repo.User().GetByUsername(ctx, "nobody")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	role := models.RoleStudent
	students, err := repo.User().List(ctx, repositories.UserFilters{Role: &role})
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestRepository_CancelledContext(t *testing.T) {
	repo := newTestRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Student().GetByStudentID(ctx, "2024001")
	require.Error(t, err)
	assert.False(t, errors.Is(err, repositories.ErrNotFound))
}

func TestRepository_Ping(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
