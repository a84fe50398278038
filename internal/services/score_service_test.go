package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/score-service/internal/models"
)

func TestScoreService_QueryCourse(t *testing.T) {
	repo := newFakeRepository()
	svc := NewScoreService(repo, newTestLogger())

	result, err := svc.Query(context.Background(), models.QueryByCourse, "CS001")
	require.NoError(t, err)
	assert.Empty(t, result.Error)
	require.Len(t, result.Scores, 2)

	assert.Equal(t, 85, result.Scores[0].Score)
	require.NotNil(t, result.Scores[0].Student)
	assert.Equal(t, "2024001", result.Scores[0].Student.StudentID)
	assert.Equal(t, "Computer Science", result.Scores[0].Student.Major)
	assert.Nil(t, result.Scores[0].Course)
	assert.Equal(t, "2024002", result.Scores[1].Student.StudentID)

	assert.Equal(t, models.Statistics{Average: "71.5", Highest: 85, Lowest: 58, Count: 2, PassRate: "50.0%"}, result.Statistics)
	assert.Nil(t, result.StudentInfo)
}

func TestScoreService_CourseNotFoundVersusEmpty(t *testing.T) {
	repo := newFakeRepository()
	svc := NewScoreService(repo, newTestLogger())
	ctx := context.Background()

	missing, err := svc.Query(ctx, models.QueryByCourse, "CS999")
	require.NoError(t, err)
	assert.Equal(t, MsgCourseNotFound, missing.Error)
	assert.Empty(t, missing.Scores)
	assert.Equal(t, models.ZeroStatistics(), missing.Statistics)

	empty, err := svc.Query(ctx, models.QueryByCourse, "CS003")
	require.NoError(t, err)
	assert.Empty(t, empty.Error, "an existing course without scores is not an error")
	assert.Empty(t, empty.Scores)
	assert.Equal(t, models.ZeroStatistics(), empty.Statistics)
}

func TestScoreService_QueryStudent(t *testing.T) {
	repo := newFakeRepository()
	svc := NewScoreService(repo, newTestLogger())

	result, err := svc.Query(context.Background(), models.QueryByStudent, "2024001")
	require.NoError(t, err)
	require.Len(t, result.Scores, 2)

	assert.Equal(t, "CS001", result.Scores[0].Course.CourseID)
	assert.Equal(t, 85, result.Scores[0].Score)
	assert.Equal(t, "CS002", result.Scores[1].Course.CourseID)
	assert.Equal(t, "Wang", result.Scores[1].Course.Teacher)
	assert.Nil(t, result.Scores[0].Student)

	assert.Equal(t, "88.5", result.Statistics.Average)
	assert.Equal(t, 92, result.Statistics.Highest)
	assert.Equal(t, 85, result.Statistics.Lowest)
	assert.Equal(t, 2, result.Statistics.Count)
	assert.Equal(t, "100.0%", result.Statistics.PassRate)

	require.NotNil(t, result.StudentInfo)
	assert.Equal(t, models.StudentInfo{ID: "2024001", Name: "Zhang San", Class: "2024年级", Major: "Computer Science"}, *result.StudentInfo)
}

func TestScoreService_StudentNotFound(t *testing.T) {
	svc := NewScoreService(newFakeRepository(), newTestLogger())

	result, err := svc.Query(context.Background(), models.QueryByStudent, "9999999")
	require.NoError(t, err)
	assert.Equal(t, MsgStudentNotFound, result.Error)
	assert.Empty(t, result.Scores)
	assert.Nil(t, result.StudentInfo)
	assert.Equal(t, models.ZeroStatistics(), result.Statistics)

	body, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"scores": [],
		"statistics": {"average": "0", "highest": 0, "lowest": 0, "count": 0, "passRate": "0%"},
		"studentInfo": null,
		"error": "student not found"
	}`, string(body))
}

func TestScoreService_MalformedKeysNeverReachStore(t *testing.T) {
	tests := []struct {
		name string
		kind models.QueryKind
		key  string
		msg  string
	}{
		{name: "short student id", kind: models.QueryByStudent, key: "12", msg: MsgStudentNotFound},
		{name: "letters in student id", kind: models.QueryByStudent, key: "20240a1", msg: MsgStudentNotFound},
		{name: "injection student id", kind: models.QueryByStudent, key: "1' OR '1'='1", msg: MsgStudentNotFound},
		{name: "lowercase course", kind: models.QueryByCourse, key: "cs001", msg: MsgCourseNotFound},
		{name: "wrong prefix course", kind: models.QueryByCourse, key: "MA001", msg: MsgCourseNotFound},
		{name: "empty course", kind: models.QueryByCourse, key: "", msg: MsgCourseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			svc := NewScoreService(repo, newTestLogger())

			result, err := svc.Query(context.Background(), tt.kind, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, result.Error)
			assert.Empty(t, result.Scores)
			assert.Zero(t, repo.calls)
		})
	}
}

func TestScoreService_StoreFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.fail = errors.New("connection refused")
	svc := NewScoreService(repo, newTestLogger())

	for _, q := range []struct {
		kind models.QueryKind
		key  string
	}{
		{models.QueryByStudent, "2024001"},
		{models.QueryByCourse, "CS001"},
	} {
		result, err := svc.Query(context.Background(), q.kind, q.key)
		assert.Nil(t, result)
		assert.True(t, errors.Is(err, ErrStoreUnavailable))
	}
}

func TestScoreService_UnknownKind(t *testing.T) {
	svc := NewScoreService(newFakeRepository(), newTestLogger())

	_, err := svc.Query(context.Background(), models.QueryKind("teacher"), "T001")
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestScoreService_CourseResultRoundTrip(t *testing.T) {
	repo := newFakeRepository()
	repo.addScore(4, "2024002", "CS002", 70)
	svc := NewScoreService(repo, newTestLogger())

	result, err := svc.Query(context.Background(), models.QueryByCourse, "CS002")
	require.NoError(t, err)

	body, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	_, hasInfo := decoded["studentInfo"]
	assert.False(t, hasInfo, "course results carry no studentInfo")
	assert.Equal(t, "81.0", decoded["statistics"].(map[string]interface{})["average"])
}
