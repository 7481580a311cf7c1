package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusGraduated = "graduated"
)

type StudentModel struct {
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`

	StudentDNI       string `gorm:"type:varchar(20);not null;uniqueIndex;column:student_dni" json:"student_dni"`
	StudentFirstName string `gorm:"type:text;not null;column:student_first_name" json:"student_first_name"`
	StudentLastName  string `gorm:"type:text;not null;column:student_last_name" json:"student_last_name"`
	StudentEmail     string `gorm:"type:text;not null;column:student_email" json:"student_email"`
	StudentStatus    string `gorm:"type:varchar(20);not null;default:'active';column:student_status" json:"student_status"`

	// Auto-generated enrollment number, e.g. "LEG-2026-0042".
	StudentEnrollmentNumber string `gorm:"type:varchar(20);not null;uniqueIndex;column:student_enrollment_number" json:"student_enrollment_number"`

	StudentCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:student_updated_at" json:"student_updated_at"`
	StudentDeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	if strings.TrimSpace(m.StudentEnrollmentNumber) == "" {
		var count int64
		if err := tx.Model(&StudentModel{}).Unscoped().Count(&count).Error; err != nil {
			return err
		}
		m.StudentEnrollmentNumber = fmt.Sprintf("LEG-%d-%04d", time.Now().Year(), count+1)
	}
	return nil
}

func (m *StudentModel) BeforeSave(tx *gorm.DB) error {
	m.StudentDNI = strings.TrimSpace(m.StudentDNI)
	m.StudentFirstName = strings.TrimSpace(m.StudentFirstName)
	m.StudentLastName = strings.TrimSpace(m.StudentLastName)
	m.StudentEmail = strings.ToLower(strings.TrimSpace(m.StudentEmail))
	return nil
}

func (m *StudentModel) FullName() string {
	return m.StudentFirstName + " " + m.StudentLastName
}
