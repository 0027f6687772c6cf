package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200;index"`
	Description *string `json:"description" gorm:"type:text"`

	// TeacherID is set once at creation and never changes.
	TeacherID uint `json:"teacher_id" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Teacher     *User        `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`

	// Computed, filled by the store when student references are resolved.
	Students []*User `json:"students,omitempty" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
