package models

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment is one side-pair of the student<->course relation. Both
// directions are derived from this single table, so the symmetry invariant
// (student in course.students <=> course in student.courses) holds
// structurally. The unique pair index is the store-level guard against
// concurrent duplicate enrolls.
type Enrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// AuditEntry records enrollment-subsystem mutations with enough context to
// reconstruct the action. Written inside the same transaction as the
// mutation it describes.
type AuditEntry struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Action    string         `json:"action" gorm:"not null;size:64;index"`
	ActorID   uint           `json:"actor_id" gorm:"not null;index"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
