package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceModel is one (enrollment, class date) cell, created absent
// by the attendance generator when the enrollment is created.
type AttendanceModel struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`

	AttendanceCourseEnrollmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_enrollment_date;column:attendance_course_enrollment_id" json:"attendance_course_enrollment_id"`
	AttendanceDate               time.Time `gorm:"not null;uniqueIndex:uq_attendance_enrollment_date;column:attendance_date" json:"attendance_date"`
	AttendanceIsPresent          bool      `gorm:"not null;default:false;column:attendance_is_present" json:"attendance_is_present"`

	AttendanceCreatedAt time.Time `gorm:"not null;autoCreateTime;column:attendance_created_at" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:attendance_updated_at" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
