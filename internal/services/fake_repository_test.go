package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
)

// fakeRepository is an in-memory Repository. It counts store calls and can
// be told to fail every call.
type fakeRepository struct {
	users    []*models.User
	students []*models.Student
	courses  []*models.Course
	scores   []*models.Score

	calls int
	fail  error
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFakeRepository returns the fixture shared by the service tests.
func newFakeRepository() *fakeRepository {
	r := &fakeRepository{
		users: []*models.User{
			{ID: 1, Username: "admin", Name: "Admin", Role: models.RoleAdmin},
			{ID: 2, Username: "t001", Name: "Wang Wu", Role: models.RoleTeacher},
			{ID: 3, Username: "2024001", Name: "Zhang San", Role: models.RoleStudent},
			{ID: 4, Username: "2024002", Name: "Li Si", Role: models.RoleStudent},
		},
		students: []*models.Student{
			{ID: 1, StudentID: "2024001", Name: "Zhang San", Major: "Computer Science", Grade: 2024},
			{ID: 2, StudentID: "2024002", Name: "Li Si", Major: "Mathematics", Grade: 2023},
		},
		courses: []*models.Course{
			{ID: 1, CourseID: "CS001", CourseName: "Computer Basics", Teacher: "Li"},
			{ID: 2, CourseID: "CS002", CourseName: "Data Structures", Teacher: "Wang"},
			{ID: 3, CourseID: "CS003", CourseName: "Operating Systems", Teacher: "Zhao"},
		},
	}
	r.addScore(1, "2024001", "CS001", 85)
	r.addScore(2, "2024001", "CS002", 92)
	r.addScore(3, "2024002", "CS001", 58)
	return r
}

func (r *fakeRepository) addScore(id uint, studentID, courseID string, score int) {
	r.scores = append(r.scores, &models.Score{ID: id, StudentID: studentID, CourseID: courseID, Score: score})
}

func (r *fakeRepository) hit() error {
	r.calls++
	return r.fail
}

func (r *fakeRepository) student(id string) *models.Student {
	for _, s := range r.students {
		if s.StudentID == id {
			return s
		}
	}
	return nil
}

func (r *fakeRepository) course(id string) *models.Course {
	for _, c := range r.courses {
		if c.CourseID == id {
			return c
		}
	}
	return nil
}

func (r *fakeRepository) withScores(s *models.Student) *models.Student {
	out := *s
	out.Scores = nil
	for _, sc := range r.scores {
		if sc.StudentID == s.StudentID {
			row := *sc
			row.Course = r.course(sc.CourseID)
			out.Scores = append(out.Scores, row)
		}
	}
	sort.Slice(out.Scores, func(i, j int) bool { return out.Scores[i].CourseID < out.Scores[j].CourseID })
	return &out
}

func (r *fakeRepository) Student() repositories.StudentRepository { return fakeStudents{r} }
func (r *fakeRepository) Course() repositories.CourseRepository   { return fakeCourses{r} }
func (r *fakeRepository) Score() repositories.ScoreRepository     { return fakeScores{r} }
func (r *fakeRepository) User() repositories.UserRepository       { return fakeUsers{r} }
func (r *fakeRepository) Ping(ctx context.Context) error          { return r.fail }
func (r *fakeRepository) Close() error                            { return nil }

type fakeStudents struct{ r *fakeRepository }

func (f fakeStudents) GetByStudentID(ctx context.Context, id string) (*models.Student, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	s := f.r.student(id)
	if s == nil {
		return nil, fmt.Errorf("student %q: %w", id, repositories.ErrNotFound)
	}
	return f.r.withScores(s), nil
}

func (f fakeStudents) List(ctx context.Context, filters repositories.StudentFilters) ([]*models.Student, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	if filters.Role != nil && *filters.Role == models.RoleStudent && filters.Username != nil && *filters.Username != "" {
		s := f.r.student(*filters.Username)
		if s == nil {
			return []*models.Student{}, nil
		}
		return []*models.Student{f.r.withScores(s)}, nil
	}
	out := make([]*models.Student, 0, len(f.r.students))
	for _, s := range f.r.students {
		out = append(out, f.r.withScores(s))
	}
	return out, nil
}

type fakeCourses struct{ r *fakeRepository }

func (f fakeCourses) GetByCourseID(ctx context.Context, id string) (*models.Course, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	c := f.r.course(id)
	if c == nil {
		return nil, fmt.Errorf("course %q: %w", id, repositories.ErrNotFound)
	}
	return c, nil
}

func (f fakeCourses) List(ctx context.Context) ([]*models.Course, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	return f.r.courses, nil
}

type fakeScores struct{ r *fakeRepository }

func (f fakeScores) ListByCourse(ctx context.Context, id string) ([]*models.Score, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	var out []*models.Score
	for _, sc := range f.r.scores {
		if sc.CourseID == id {
			row := *sc
			row.Student = f.r.student(sc.StudentID)
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

type fakeUsers struct{ r *fakeRepository }

func (f fakeUsers) find(match func(*models.User) bool, key string) (*models.User, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	for _, u := range f.r.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", key, repositories.ErrNotFound)
}

func (f fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Username == username }, username)
}

func (f fakeUsers) GetByName(ctx context.Context, name string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Name == name }, name)
}

func (f fakeUsers) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, error) {
	if err := f.r.hit(); err != nil {
		return nil, err
	}
	var out []*models.User
	for _, u := range f.r.users {
		if filters.Role == nil || u.Role == *filters.Role {
			out = append(out, u)
		}
	}
	return out, nil
}
