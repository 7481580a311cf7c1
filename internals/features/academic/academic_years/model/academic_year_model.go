package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AcademicYearModel struct {
	// ============ PK ============
	AcademicYearID uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`

	// ============ Identity ============
	// Example name: "Ciclo Lectivo 2026"
	AcademicYearName      string    `gorm:"type:text;not null;uniqueIndex;column:academic_year_name" json:"academic_year_name"`
	AcademicYearStartDate time.Time `gorm:"not null;column:academic_year_start_date" json:"academic_year_start_date"`
	AcademicYearEndDate   time.Time `gorm:"not null;column:academic_year_end_date" json:"academic_year_end_date"`
	// No column default: a default tag would make GORM drop an explicit
	// false on insert. Creation paths set the flag themselves.
	AcademicYearIsActive bool `gorm:"not null;column:academic_year_is_active" json:"academic_year_is_active"`

	// ============ Progression thresholds ============
	AcademicYearPassingGrade     float64 `gorm:"not null;default:6.0;column:academic_year_passing_grade" json:"academic_year_passing_grade"`
	AcademicYearMinAttendancePct float64 `gorm:"not null;default:75;column:academic_year_min_attendance_pct" json:"academic_year_min_attendance_pct"`

	// ============ Closure window ============
	AcademicYearClosureEnabled  bool       `gorm:"not null;default:false;column:academic_year_closure_enabled" json:"academic_year_closure_enabled"`
	AcademicYearClosureDeadline *time.Time `gorm:"column:academic_year_closure_deadline" json:"academic_year_closure_deadline,omitempty"`

	// JSONB extra stats (optional / flexible)
	AcademicYearStats datatypes.JSON `gorm:"type:jsonb;column:academic_year_stats" json:"academic_year_stats,omitempty"`

	// ============ Audit / Soft delete ============
	AcademicYearCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:academic_year_created_at" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:academic_year_updated_at" json:"academic_year_updated_at"`
	AcademicYearDeletedAt gorm.DeletedAt `gorm:"column:academic_year_deleted_at;index" json:"academic_year_deleted_at,omitempty"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	return nil
}

func (m *AcademicYearModel) BeforeSave(tx *gorm.DB) error {
	// Mirror CHECK: end > start
	if !m.AcademicYearEndDate.After(m.AcademicYearStartDate) {
		return errors.New("academic_year_end_date must be > academic_year_start_date")
	}
	m.AcademicYearName = strings.TrimSpace(m.AcademicYearName)
	return nil
}
