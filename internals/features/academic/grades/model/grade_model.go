package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GradeTypePartial  = "partial"
	GradeTypeHomework = "homework"
	GradeTypeFinal    = "final"
	GradeTypeConcept  = "concept"
)

func IsValidGradeType(t string) bool {
	switch t {
	case GradeTypePartial, GradeTypeHomework, GradeTypeFinal, GradeTypeConcept:
		return true
	}
	return false
}

type GradeModel struct {
	GradeID uuid.UUID `gorm:"type:uuid;primaryKey;column:grade_id" json:"grade_id"`

	GradeCourseEnrollmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_grade_natural_key;column:grade_course_enrollment_id" json:"grade_course_enrollment_id"`
	GradeType               string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_grade_natural_key;column:grade_type" json:"grade_type"`
	GradeSequence           int       `gorm:"not null;default:1;uniqueIndex:uq_grade_natural_key;column:grade_sequence" json:"grade_sequence"`
	GradeValue              float64   `gorm:"not null;column:grade_value" json:"grade_value"`

	// Tamper-evidence digest over the critical fields. Advisory: a
	// mismatch flags historical tampering, it never blocks a write.
	GradeIntegrityHash string `gorm:"type:varchar(64);not null;column:grade_integrity_hash" json:"grade_integrity_hash"`

	GradeCreatedAt time.Time `gorm:"not null;autoCreateTime;column:grade_created_at" json:"grade_created_at"`
	GradeUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:grade_updated_at" json:"grade_updated_at"`
}

func (GradeModel) TableName() string { return "grades" }

func (m *GradeModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradeID == uuid.Nil {
		m.GradeID = uuid.New()
	}
	return nil
}

func (m *GradeModel) BeforeSave(tx *gorm.DB) error {
	m.GradeIntegrityHash = m.ComputeIntegrityHash()
	return nil
}

func (m *GradeModel) ComputeIntegrityHash() string {
	payload := fmt.Sprintf("%s|%s|%d|%.2f",
		m.GradeCourseEnrollmentID, m.GradeType, m.GradeSequence, m.GradeValue)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
