package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coursework standing ("condición de cursada").
const (
	ConditionAttending = "attending" // cursando
	ConditionRegular   = "regular"   // regularized: may sit a lighter final exam
	ConditionLibre     = "libre"     // did not regularize
)

// Course-level outcome ("estado de la materia").
const (
	FinalStatusAttending = "attending"
	FinalStatusRegular   = "regular"
	FinalStatusLibre     = "libre"
	FinalStatusApproved  = "approved"
	FinalStatusFailed    = "failed"
)

// CourseEnrollmentModel links a student to a section. Created by the
// enrollment validator, mutated by the grade ledger, the closure
// engines and the exam synchronizer; never deleted by the engine.
type CourseEnrollmentModel struct {
	CourseEnrollmentID uuid.UUID `gorm:"type:uuid;primaryKey;column:course_enrollment_id" json:"course_enrollment_id"`

	CourseEnrollmentStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment_student_section;column:course_enrollment_student_id" json:"course_enrollment_student_id"`
	CourseEnrollmentSectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_enrollment_student_section;column:course_enrollment_section_id" json:"course_enrollment_section_id"`

	CourseEnrollmentCondition         string     `gorm:"type:varchar(20);not null;default:'attending';column:course_enrollment_condition" json:"course_enrollment_condition"`
	CourseEnrollmentCourseworkAverage *float64   `gorm:"column:course_enrollment_coursework_average" json:"course_enrollment_coursework_average,omitempty"`
	CourseEnrollmentRegularizedAt     *time.Time `gorm:"column:course_enrollment_regularized_at" json:"course_enrollment_regularized_at,omitempty"`

	// Invariant: final_status=approved implies final_grade set.
	CourseEnrollmentFinalStatus string     `gorm:"type:varchar(20);not null;default:'attending';column:course_enrollment_final_status" json:"course_enrollment_final_status"`
	CourseEnrollmentFinalGrade  *float64   `gorm:"column:course_enrollment_final_grade" json:"course_enrollment_final_grade,omitempty"`
	CourseEnrollmentClosedAt    *time.Time `gorm:"column:course_enrollment_closed_at" json:"course_enrollment_closed_at,omitempty"`
	CourseEnrollmentClosedBy    *uuid.UUID `gorm:"type:uuid;column:course_enrollment_closed_by" json:"course_enrollment_closed_by,omitempty"`

	CourseEnrollmentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:course_enrollment_created_at" json:"course_enrollment_created_at"`
	CourseEnrollmentUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:course_enrollment_updated_at" json:"course_enrollment_updated_at"`
}

func (CourseEnrollmentModel) TableName() string { return "course_enrollments" }

func (m *CourseEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseEnrollmentID == uuid.Nil {
		m.CourseEnrollmentID = uuid.New()
	}
	return nil
}

// CourseworkCondition maps the stored condition to the pair the exam
// engine understands: a student is either regular or libre once the
// cursada is over; anything else counts as libre.
func (m *CourseEnrollmentModel) CourseworkCondition() string {
	if m.CourseEnrollmentCondition == ConditionRegular {
		return ConditionRegular
	}
	return ConditionLibre
}
