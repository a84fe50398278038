package models

import "time"

// PassingScore is the inclusive threshold for a pass.
const PassingScore = 60

// Score is the association row between a student and a course. The pair
// (student_id, course_id) is unique.
type Score struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"studentId" gorm:"column:student_id;not null;size:7;uniqueIndex:idx_score_student_course"`
	CourseID  string `json:"courseId" gorm:"column:course_id;not null;size:5;uniqueIndex:idx_score_student_course;index"`
	Score     int    `json:"score" gorm:"not null;check:score >= 0 AND score <= 100"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:StudentID"`
	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID;references:CourseID"`
}

func (Score) TableName() string {
	return "scores"
}

func (s Score) Passed() bool {
	return s.Score >= PassingScore
}
