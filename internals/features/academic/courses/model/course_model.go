package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseModel struct {
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;column:course_id" json:"course_id"`

	CourseName string `gorm:"type:text;not null;column:course_name" json:"course_name"`
	CourseCode string `gorm:"type:varchar(20);not null;uniqueIndex;column:course_code" json:"course_code"`
	// Owning study program ("plan de estudio").
	CourseProgram string `gorm:"type:text;not null;column:course_program" json:"course_program"`

	CourseCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:course_created_at" json:"course_created_at"`
	CourseUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:course_updated_at" json:"course_updated_at"`
	CourseDeletedAt gorm.DeletedAt `gorm:"column:course_deleted_at;index" json:"course_deleted_at,omitempty"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	return nil
}

func (m *CourseModel) BeforeSave(tx *gorm.DB) error {
	m.CourseName = strings.TrimSpace(m.CourseName)
	m.CourseCode = strings.ToUpper(strings.TrimSpace(m.CourseCode))
	return nil
}

// CoursePrerequisiteModel is one directed edge of the correlativas
// graph: PrerequisiteID must be approved before enrolling in CourseID.
// Only direct edges are checked at enrollment time; acyclicity is an
// editor-time concern.
type CoursePrerequisiteModel struct {
	CoursePrerequisiteID             uuid.UUID `gorm:"type:uuid;primaryKey;column:course_prerequisite_id" json:"course_prerequisite_id"`
	CoursePrerequisiteCourseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_prerequisite_edge;column:course_prerequisite_course_id" json:"course_prerequisite_course_id"`
	CoursePrerequisitePrerequisiteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_prerequisite_edge;column:course_prerequisite_prerequisite_id" json:"course_prerequisite_prerequisite_id"`

	CoursePrerequisiteCreatedAt time.Time `gorm:"not null;autoCreateTime;column:course_prerequisite_created_at" json:"course_prerequisite_created_at"`
}

func (CoursePrerequisiteModel) TableName() string { return "course_prerequisites" }

func (m *CoursePrerequisiteModel) BeforeCreate(tx *gorm.DB) error {
	if m.CoursePrerequisiteID == uuid.Nil {
		m.CoursePrerequisiteID = uuid.New()
	}
	return nil
}
