package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/score-service/internal/models"
)

const testFixtures = `
[[users]]
username = "admin"
password = "admin123"
name = "Administrator"
role = "admin"

[[users]]
username = "2024001"
password = "student123"
name = "Zhang San"
role = "STUDENT"

[[students]]
student_id = "2024001"
name = "Zhang San"
gender = "M"
major = "Computer Science"
grade = 2024

[[courses]]
course_id = "CS001"
course_name = "Introduction to Computing"
teacher = "Li Ming"

[[scores]]
student_id = "2024001"
course_id = "CS001"
score = 85
`

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}, &models.Course{}, &models.Score{}))
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApply_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	f, err := Parse([]byte(testFixtures))
	require.NoError(t, err)

	res, err := Apply(ctx, db, f, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Students: 1, Courses: 1, Scores: 1}, *res)

	// second run updates in place
	f.Scores[0].Score = 90
	_, err = Apply(ctx, db, f, discardLogger())
	require.NoError(t, err)

	var users, scores int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Score{}).Count(&scores)
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(1), scores)

	var score models.Score
	require.NoError(t, db.First(&score, "student_id = ? AND course_id = ?", "2024001", "CS001").Error)
	assert.Equal(t, 90, score.Score)

	var admin models.User
	require.NoError(t, db.First(&admin, "username = ?", "admin").Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, admin.CheckPassword("admin123"))
	assert.NotEqual(t, "admin123", string(admin.PasswordHash))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "bad toml", data: `[[users]`},
		{name: "unknown role", data: "[[users]]\nusername = \"x\"\npassword = \"y\"\nrole = \"JANITOR\""},
		{name: "bad student id", data: "[[students]]\nstudent_id = \"12\""},
		{name: "bad course id", data: "[[courses]]\ncourse_id = \"MA001\""},
		{name: "score out of range", data: "[[students]]\nstudent_id = \"2024001\"\n[[courses]]\ncourse_id = \"CS001\"\n[[scores]]\nstudent_id = \"2024001\"\ncourse_id = \"CS001\"\nscore = 101"},
		{name: "dangling score", data: "[[scores]]\nstudent_id = \"2024001\"\ncourse_id = \"CS001\"\nscore = 50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(testFixtures), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Users, 2)
	assert.Equal(t, "CS001", f.Courses[0].CourseID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
