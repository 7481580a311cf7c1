package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SectionStateInProgress = "in_progress"
	// Terminal: a finalized section never goes back in progress.
	SectionStateFinalized = "finalized"
)

type SectionModel struct {
	SectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:section_id" json:"section_id"`

	SectionCourseID       uuid.UUID `gorm:"type:uuid;not null;index;column:section_course_id" json:"section_course_id"`
	SectionAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:section_academic_year_id" json:"section_academic_year_id"`

	SectionCode string `gorm:"type:varchar(20);not null;uniqueIndex;column:section_code" json:"section_code"`
	// 0=Sunday ... 6=Saturday (time.Weekday).
	SectionWeekday   int    `gorm:"not null;column:section_weekday" json:"section_weekday"`
	SectionStartTime string `gorm:"type:varchar(5);not null;column:section_start_time" json:"section_start_time"`
	SectionEndTime   string `gorm:"type:varchar(5);not null;column:section_end_time" json:"section_end_time"`
	SectionShift     string `gorm:"type:varchar(20);column:section_shift" json:"section_shift,omitempty"`

	SectionCapacity  int        `gorm:"not null;column:section_capacity" json:"section_capacity"`
	SectionTeacherID *uuid.UUID `gorm:"type:uuid;column:section_teacher_id" json:"section_teacher_id,omitempty"`

	SectionState       string     `gorm:"type:varchar(20);not null;default:'in_progress';column:section_state" json:"section_state"`
	SectionFinalizedAt *time.Time `gorm:"column:section_finalized_at" json:"section_finalized_at,omitempty"`

	SectionCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:section_created_at" json:"section_created_at"`
	SectionUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:section_updated_at" json:"section_updated_at"`
	SectionDeletedAt gorm.DeletedAt `gorm:"column:section_deleted_at;index" json:"section_deleted_at,omitempty"`
}

func (SectionModel) TableName() string { return "sections" }

func (m *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionID == uuid.Nil {
		m.SectionID = uuid.New()
	}
	return nil
}

func (m *SectionModel) BeforeSave(tx *gorm.DB) error {
	if m.SectionWeekday < 0 || m.SectionWeekday > 6 {
		return errors.New("section_weekday must be in 0..6")
	}
	if m.SectionCapacity < 1 {
		return errors.New("section_capacity must be >= 1")
	}
	if m.SectionStartTime >= m.SectionEndTime {
		return errors.New("section_start_time must be before section_end_time")
	}
	m.SectionCode = strings.ToUpper(strings.TrimSpace(m.SectionCode))
	return nil
}

func (m *SectionModel) IsFinalized() bool {
	return m.SectionState == SectionStateFinalized
}
