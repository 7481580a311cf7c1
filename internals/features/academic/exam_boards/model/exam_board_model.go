package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Mesa de examen lifecycle. Transitions are forward-only:
// open -> closed -> finalized.
const (
	BoardStateOpen      = "open"
	BoardStateClosed    = "closed"
	BoardStateFinalized = "finalized"
)

type ExamBoardModel struct {
	ExamBoardID uuid.UUID `gorm:"type:uuid;primaryKey;column:exam_board_id" json:"exam_board_id"`

	ExamBoardCourseID       uuid.UUID `gorm:"type:uuid;not null;index;column:exam_board_course_id" json:"exam_board_course_id"`
	ExamBoardAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:exam_board_academic_year_id" json:"exam_board_academic_year_id"`

	ExamBoardExamAt             time.Time `gorm:"not null;column:exam_board_exam_at" json:"exam_board_exam_at"`
	ExamBoardEnrollmentDeadline time.Time `gorm:"not null;column:exam_board_enrollment_deadline" json:"exam_board_enrollment_deadline"`
	ExamBoardCapacity           int       `gorm:"not null;default:30;column:exam_board_capacity" json:"exam_board_capacity"`

	// Examiner panel (tribunal) member names.
	ExamBoardExaminers pq.StringArray `gorm:"type:text[];column:exam_board_examiners" json:"exam_board_examiners,omitempty"`

	ExamBoardState       string     `gorm:"type:varchar(20);not null;default:'open';column:exam_board_state" json:"exam_board_state"`
	ExamBoardFinalizedAt *time.Time `gorm:"column:exam_board_finalized_at" json:"exam_board_finalized_at,omitempty"`

	ExamBoardCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:exam_board_created_at" json:"exam_board_created_at"`
	ExamBoardUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:exam_board_updated_at" json:"exam_board_updated_at"`
	ExamBoardDeletedAt gorm.DeletedAt `gorm:"column:exam_board_deleted_at;index" json:"exam_board_deleted_at,omitempty"`
}

func (ExamBoardModel) TableName() string { return "exam_boards" }

func (m *ExamBoardModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamBoardID == uuid.Nil {
		m.ExamBoardID = uuid.New()
	}
	return nil
}

func (m *ExamBoardModel) IsFinalized() bool { return m.ExamBoardState == BoardStateFinalized }
