package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"siga_backend/internals/apperr"
	model "siga_backend/internals/features/academic/grades/model"
)

// GradeLedger stores graded assessments per course enrollment and
// derives every average the closure engines consume. Averages are
// never persisted as independent truth; they are recomputed from the
// grade rows on demand.
type GradeLedger struct {
	DB *gorm.DB
}

func NewGradeLedger(db *gorm.DB) *GradeLedger {
	return &GradeLedger{DB: db}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

/* =========================
   Record / upsert
========================= */

// Record upserts a grade by its natural key (enrollment, type,
// sequence). Retried or duplicated calls converge on one row.
func (l *GradeLedger) Record(tx *gorm.DB, enrollmentID uuid.UUID, gradeType string, sequence int, value float64) (*model.GradeModel, error) {
	if !model.IsValidGradeType(gradeType) {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid grade type %q", gradeType))
	}
	if sequence < 1 {
		return nil, apperr.NewValidation("grade sequence must be >= 1")
	}
	if value < 0 || value > 10 {
		return nil, apperr.NewValidation(fmt.Sprintf("grade must be between 0 and 10, got %.2f", value))
	}

	grade := model.GradeModel{
		GradeCourseEnrollmentID: enrollmentID,
		GradeType:               gradeType,
		GradeSequence:           sequence,
		GradeValue:              value,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "grade_course_enrollment_id"},
			{Name: "grade_type"},
			{Name: "grade_sequence"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"grade_value", "grade_integrity_hash", "grade_updated_at"}),
	}).Create(&grade).Error
	if err != nil {
		return nil, err
	}

	// OnConflict keeps the original PK; reload so callers see it.
	var stored model.GradeModel
	if err := tx.
		Where("grade_course_enrollment_id = ? AND grade_type = ? AND grade_sequence = ?",
			enrollmentID, gradeType, sequence).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

/* =========================
   Derived values
========================= */

// CourseworkAverage is the mean of partial and homework grades only;
// final-type grades never count toward regularization.
func (l *GradeLedger) CourseworkAverage(tx *gorm.DB, enrollmentID uuid.UUID) (*float64, error) {
	var grades []model.GradeModel
	if err := tx.
		Where("grade_course_enrollment_id = ? AND grade_type IN ?",
			enrollmentID, []string{model.GradeTypePartial, model.GradeTypeHomework}).
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return mean(grades), nil
}

// OverallAverage is the mean of every recorded grade.
func (l *GradeLedger) OverallAverage(tx *gorm.DB, enrollmentID uuid.UUID) (*float64, error) {
	var grades []model.GradeModel
	if err := tx.
		Where("grade_course_enrollment_id = ?", enrollmentID).
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return mean(grades), nil
}

// EffectiveFinalGrade: the final-type grade when one exists, else the
// overall average, else nil (no grades at all).
func (l *GradeLedger) EffectiveFinalGrade(tx *gorm.DB, enrollmentID uuid.UUID) (*float64, error) {
	var final model.GradeModel
	err := tx.
		Where("grade_course_enrollment_id = ? AND grade_type = ?", enrollmentID, model.GradeTypeFinal).
		Order("grade_sequence ASC").
		First(&final).Error
	if err == nil {
		v := Round2(final.GradeValue)
		return &v, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return l.OverallAverage(tx, enrollmentID)
}

func mean(grades []model.GradeModel) *float64 {
	if len(grades) == 0 {
		return nil
	}
	var sum float64
	for _, g := range grades {
		sum += g.GradeValue
	}
	avg := Round2(sum / float64(len(grades)))
	return &avg
}

/* =========================
   Integrity verification
========================= */

type IntegrityMismatch struct {
	GradeID      uuid.UUID `json:"grade_id"`
	StoredHash   string    `json:"stored_hash"`
	ExpectedHash string    `json:"expected_hash"`
}

// VerifyIntegrity recomputes every digest for an enrollment and
// reports mismatches. Advisory only: a mismatch means historical
// tampering to investigate, not a live fault.
func (l *GradeLedger) VerifyIntegrity(tx *gorm.DB, enrollmentID uuid.UUID) ([]IntegrityMismatch, error) {
	var grades []model.GradeModel
	if err := tx.
		Where("grade_course_enrollment_id = ?", enrollmentID).
		Find(&grades).Error; err != nil {
		return nil, err
	}

	var mismatches []IntegrityMismatch
	for _, g := range grades {
		if expected := g.ComputeIntegrityHash(); expected != g.GradeIntegrityHash {
			mismatches = append(mismatches, IntegrityMismatch{
				GradeID:      g.GradeID,
				StoredHash:   g.GradeIntegrityHash,
				ExpectedHash: expected,
			})
		}
	}
	return mismatches, nil
}
