package models

import "time"

type Student struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	StudentID string `json:"studentId" gorm:"column:student_id;uniqueIndex;not null;size:7"`
	Name      string `json:"name" gorm:"not null;size:100"`
	Gender    string `json:"gender" gorm:"size:10"`
	Major     string `json:"major" gorm:"size:100"`
	Grade     int    `json:"grade"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Scores []Score `json:"scores,omitempty" gorm:"foreignKey:StudentID;references:StudentID"`
}

func (Student) TableName() string {
	return "students"
}
