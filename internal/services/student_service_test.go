package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/score-service/internal/models"
)

func studentIDs(students []*models.Student) []string {
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.StudentID)
	}
	return ids
}

func TestStudentService_List(t *testing.T) {
	admin := &models.Principal{Username: "admin", Role: models.RoleAdmin}
	teacher := &models.Principal{Username: "t001", Role: models.RoleTeacher}
	student := &models.Principal{Username: "2024001", Role: models.RoleStudent}
	orphan := &models.Principal{Username: "2024777", Role: models.RoleStudent}
	unknown := &models.Principal{Username: "x", Role: "JANITOR"}

	tests := []struct {
		name      string
		principal *models.Principal
		params    StudentListParams
		want      []string
	}{
		{name: "admin sees all", principal: admin, want: []string{"2024001", "2024002"}},
		{name: "teacher sees all", principal: teacher, want: []string{"2024001", "2024002"}},
		{name: "staff may narrow", principal: admin, params: StudentListParams{Role: "STUDENT", Username: "2024002"}, want: []string{"2024002"}},
		{name: "student sees self", principal: student, want: []string{"2024001"}},
		{name: "student params are ignored", principal: student, params: StudentListParams{Role: "ADMIN"}, want: []string{"2024001"}},
		{name: "student cannot pick another username", principal: student, params: StudentListParams{Role: "STUDENT", Username: "2024002"}, want: []string{"2024001"}},
		{name: "student without record", principal: orphan, want: []string{}},
		{name: "unknown role", principal: unknown, want: []string{}},
		{name: "no principal", principal: nil, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewStudentService(newFakeRepository(), newTestLogger())

			got, err := svc.List(context.Background(), tt.principal, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, studentIDs(got))
		})
	}
}

func TestCourseService_List(t *testing.T) {
	svc := NewCourseService(newFakeRepository(), newTestLogger())

	courses, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}
