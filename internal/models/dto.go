package models

import (
	"encoding/json"
	"fmt"
)

// ===== PRINCIPAL =====

// Principal is the authenticated identity attached to a request. Role is
// resolved once when the request is authenticated and never re-derived.
type Principal struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// ===== SCORE QUERY =====

type QueryKind string

const (
	QueryByStudent QueryKind = "student"
	QueryByCourse  QueryKind = "course"
)

// Statistics summarises a set of scores. Average and PassRate are preformatted
// with one decimal.
type Statistics struct {
	Average  string `json:"average"`
	Highest  int    `json:"highest"`
	Lowest   int    `json:"lowest"`
	Count    int    `json:"count"`
	PassRate string `json:"passRate"`
}

// ZeroStatistics is the summary of an empty score set.
func ZeroStatistics() Statistics {
	return Statistics{
		Average:  "0",
		Highest:  0,
		Lowest:   0,
		Count:    0,
		PassRate: "0%",
	}
}

type StudentSummary struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Major     string `json:"major"`
}

type CourseSummary struct {
	CourseID   string `json:"courseId"`
	CourseName string `json:"courseName"`
	Teacher    string `json:"teacher"`
}

// ScoreRow is one score joined with its counterpart entity: Course for a
// student query, Student for a course query.
type ScoreRow struct {
	ID      uint            `json:"id"`
	Score   int             `json:"score"`
	Course  *CourseSummary  `json:"course,omitempty"`
	Student *StudentSummary `json:"student,omitempty"`
}

type StudentInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Major string `json:"major"`
}

func NewStudentInfo(s *Student) *StudentInfo {
	return &StudentInfo{
		ID:    s.StudentID,
		Name:  s.Name,
		Class: fmt.Sprintf("%d年级", s.Grade),
		Major: s.Major,
	}
}

// ScoreQueryResult is the response of a score query. Student queries always
// carry a studentInfo key (null when the student is unknown); course queries
// never do.
type ScoreQueryResult struct {
	Kind        QueryKind    `json:"-"`
	Scores      []ScoreRow   `json:"scores"`
	Statistics  Statistics   `json:"statistics"`
	StudentInfo *StudentInfo `json:"studentInfo"`
	Error       string       `json:"error,omitempty"`
}

func (r ScoreQueryResult) MarshalJSON() ([]byte, error) {
	scores := r.Scores
	if scores == nil {
		scores = []ScoreRow{}
	}

	if r.Kind == QueryByStudent {
		type studentView struct {
			Scores      []ScoreRow   `json:"scores"`
			Statistics  Statistics   `json:"statistics"`
			StudentInfo *StudentInfo `json:"studentInfo"`
			Error       string       `json:"error,omitempty"`
		}
		return json.Marshal(studentView{
			Scores:      scores,
			Statistics:  r.Statistics,
			StudentInfo: r.StudentInfo,
			Error:       r.Error,
		})
	}

	type courseView struct {
		Scores     []ScoreRow `json:"scores"`
		Statistics Statistics `json:"statistics"`
		Error      string     `json:"error,omitempty"`
	}
	return json.Marshal(courseView{
		Scores:     scores,
		Statistics: r.Statistics,
		Error:      r.Error,
	})
}

// EmptyResult builds a zeroed result carrying msg.
func EmptyResult(kind QueryKind, msg string) *ScoreQueryResult {
	return &ScoreQueryResult{
		Kind:       kind,
		Scores:     []ScoreRow{},
		Statistics: ZeroStatistics(),
		Error:      msg,
	}
}

// ===== AUTH =====

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expires_at"`
	Principal Principal `json:"user"`
}

type Capabilities struct {
	ManageUsers   bool `json:"canManageUsers"`
	ManageCourses bool `json:"canManageCourses"`
	ViewAllScores bool `json:"canViewAllScores"`
	ExportScores  bool `json:"canExportScores"`
}

type SessionResponse struct {
	Principal    Principal    `json:"user"`
	Capabilities Capabilities `json:"capabilities"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// SessionClaims are the identity claims carried by a session token. Role is
// kept raw so that an unrecognised value can be resolved against the store.
type SessionClaims struct {
	UserID   string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
