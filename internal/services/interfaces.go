package services

import (
	"context"

	"github.com/SAP-F-2025/score-service/internal/models"
)

// ===== REQUEST DTOs =====

// StudentListParams are the optional filters of a student listing as sent by
// the client. The principal decides how much of them is honoured.
type StudentListParams struct {
	Role     string
	Username string
}

// ExportFile is a rendered spreadsheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

// ScoreService answers score queries by student or by course.
type ScoreService interface {
	Query(ctx context.Context, kind models.QueryKind, key string) (*models.ScoreQueryResult, error)
}

// PrincipalService resolves session claims and account lookups.
type PrincipalService interface {
	Resolve(ctx context.Context, claims models.SessionClaims) (*models.Principal, error)
	Authenticate(ctx context.Context, username, password string) (*models.Principal, error)
	LookupUser(ctx context.Context, principal *models.Principal, username string) (*models.UserSummary, error)
	ListUsers(ctx context.Context, role *models.UserRole) ([]models.UserSummary, error)
}

type StudentService interface {
	List(ctx context.Context, principal *models.Principal, params StudentListParams) ([]*models.Student, error)
}

type CourseService interface {
	List(ctx context.Context) ([]*models.Course, error)
}

// ExportService renders score query results as xlsx workbooks.
type ExportService interface {
	ExportScores(ctx context.Context, kind models.QueryKind, key string) (*ExportFile, error)
}

// ServiceManager owns the service instances and their lifecycle.
type ServiceManager interface {
	Score() ScoreService
	Principal() PrincipalService
	Student() StudentService
	Course() CourseService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
