package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/score-service/internal/metrics"
	"github.com/SAP-F-2025/score-service/internal/models"
	"github.com/SAP-F-2025/score-service/internal/repositories"
	"github.com/SAP-F-2025/score-service/internal/validator"
)

const (
	MsgStudentNotFound = "student not found"
	MsgCourseNotFound  = "course not found"
	MsgMissingKey      = "missing studentId or courseId"
	MsgInternalError   = "internal server error"
)

type scoreService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewScoreService(repo repositories.Repository, logger *slog.Logger) ScoreService {
	return &scoreService{
		repo:   repo,
		logger: logger,
	}
}

// Query runs a score query. Unknown and malformed keys yield the not-found
// result of their kind; only store failures return an error.
func (s *scoreService) Query(ctx context.Context, kind models.QueryKind, key string) (*models.ScoreQueryResult, error) {
	var (
		result *models.ScoreQueryResult
		err    error
	)

	switch kind {
	case models.QueryByCourse:
		result, err = s.queryCourse(ctx, key)
	case models.QueryByStudent:
		result, err = s.queryStudent(ctx, key)
	default:
		return nil, fmt.Errorf("%w: unknown query kind %q", ErrValidationFailed, kind)
	}

	s.record(kind, result, err)
	return result, err
}

func (s *scoreService) queryCourse(ctx context.Context, courseID string) (*models.ScoreQueryResult, error) {
	if !validator.IsCourseID(courseID) {
		s.logger.Debug("Rejected malformed course id", "course_id", courseID)
		return models.EmptyResult(models.QueryByCourse, MsgCourseNotFound), nil
	}

	if _, err := s.repo.Course().GetByCourseID(ctx, courseID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.EmptyResult(models.QueryByCourse, MsgCourseNotFound), nil
		}
		return nil, storeError("failed to get course", err)
	}

	scores, err := s.repo.Score().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, storeError("failed to list course scores", err)
	}

	rows := make([]models.ScoreRow, 0, len(scores))
	values := make([]int, 0, len(scores))
	for _, sc := range scores {
		row := models.ScoreRow{ID: sc.ID, Score: sc.Score}
		if sc.Student != nil {
			row.Student = &models.StudentSummary{
				StudentID: sc.Student.StudentID,
				Name:      sc.Student.Name,
				Major:     sc.Student.Major,
			}
		}
		rows = append(rows, row)
		values = append(values, sc.Score)
	}

	return &models.ScoreQueryResult{
		Kind:       models.QueryByCourse,
		Scores:     rows,
		Statistics: Aggregate(values),
	}, nil
}

func (s *scoreService) queryStudent(ctx context.Context, studentID string) (*models.ScoreQueryResult, error) {
	if !validator.IsStudentID(studentID) {
		s.logger.Debug("Rejected malformed student id", "student_id", studentID)
		return models.EmptyResult(models.QueryByStudent, MsgStudentNotFound), nil
	}

	student, err := s.repo.Student().GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.EmptyResult(models.QueryByStudent, MsgStudentNotFound), nil
		}
		return nil, storeError("failed to get student", err)
	}

	rows := make([]models.ScoreRow, 0, len(student.Scores))
	values := make([]int, 0, len(student.Scores))
	for _, sc := range student.Scores {
		row := models.ScoreRow{ID: sc.ID, Score: sc.Score}
		if sc.Course != nil {
			row.Course = &models.CourseSummary{
				CourseID:   sc.Course.CourseID,
				CourseName: sc.Course.CourseName,
				Teacher:    sc.Course.Teacher,
			}
		}
		rows = append(rows, row)
		values = append(values, sc.Score)
	}

	return &models.ScoreQueryResult{
		Kind:        models.QueryByStudent,
		Scores:      rows,
		Statistics:  Aggregate(values),
		StudentInfo: models.NewStudentInfo(student),
	}, nil
}

func (s *scoreService) record(kind models.QueryKind, result *models.ScoreQueryResult, err error) {
	outcome := metrics.OutcomeFound
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case result.Error != "":
		outcome = metrics.OutcomeNotFound
	case len(result.Scores) == 0:
		outcome = metrics.OutcomeEmpty
	}
	metrics.ScoreQueriesTotal.WithLabelValues(string(kind), outcome).Inc()

	if result != nil {
		for _, row := range result.Scores {
			metrics.ScoreValueHistogram.WithLabelValues(string(kind)).Observe(float64(row.Score))
		}
	}
}
