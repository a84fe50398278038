package models

import "time"

type Course struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CourseID   string `json:"courseId" gorm:"column:course_id;uniqueIndex;not null;size:5"`
	CourseName string `json:"courseName" gorm:"not null;size:100"`
	Teacher    string `json:"teacher" gorm:"size:100"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Scores []Score `json:"scores,omitempty" gorm:"foreignKey:CourseID;references:CourseID"`

	// Computed fields (not stored)
	ScoreCount int64 `json:"scoreCount" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
