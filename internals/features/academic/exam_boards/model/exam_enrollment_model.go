package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Standing at the exam table, derived from the coursework condition of
// the linked course enrollment. Never user-set.
const (
	ExamStandingRegular = "regular"
	ExamStandingLibre   = "libre"
)

const (
	ExamOutcomeEnrolled = "enrolled"
	ExamOutcomeAbsent   = "absent"
	ExamOutcomePassed   = "passed"
	ExamOutcomeFailed   = "failed"
)

type ExamEnrollmentModel struct {
	ExamEnrollmentID uuid.UUID `gorm:"type:uuid;primaryKey;column:exam_enrollment_id" json:"exam_enrollment_id"`

	ExamEnrollmentExamBoardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_exam_enrollment_student_board;column:exam_enrollment_exam_board_id" json:"exam_enrollment_exam_board_id"`
	ExamEnrollmentStudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_exam_enrollment_student_board;column:exam_enrollment_student_id" json:"exam_enrollment_student_id"`

	// The course enrollment whose final standing this exam decides,
	// captured at enrollment time so re-grading stays deterministic.
	ExamEnrollmentCourseEnrollmentID uuid.UUID `gorm:"type:uuid;not null;index;column:exam_enrollment_course_enrollment_id" json:"exam_enrollment_course_enrollment_id"`

	ExamEnrollmentStanding string   `gorm:"type:varchar(20);not null;column:exam_enrollment_standing" json:"exam_enrollment_standing"`
	ExamEnrollmentOutcome  string   `gorm:"type:varchar(20);not null;default:'enrolled';column:exam_enrollment_outcome" json:"exam_enrollment_outcome"`
	ExamEnrollmentGrade    *float64 `gorm:"column:exam_enrollment_grade" json:"exam_enrollment_grade,omitempty"`

	ExamEnrollmentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:exam_enrollment_created_at" json:"exam_enrollment_created_at"`
	ExamEnrollmentUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:exam_enrollment_updated_at" json:"exam_enrollment_updated_at"`
}

func (ExamEnrollmentModel) TableName() string { return "exam_enrollments" }

func (m *ExamEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamEnrollmentID == uuid.Nil {
		m.ExamEnrollmentID = uuid.New()
	}
	return nil
}
