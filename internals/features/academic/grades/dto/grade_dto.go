package dto

import (
	"time"

	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/grades/model"
)

type GradeRecordDTO struct {
	EnrollmentID uuid.UUID `json:"enrollment_id" validate:"required"`
	Type         string    `json:"type" validate:"required,oneof=partial homework final concept"`
	Sequence     int       `json:"sequence" validate:"required,gte=1"`
	Value        float64   `json:"value" validate:"gte=0,lte=10"`
}

type GradeResponse struct {
	GradeID       uuid.UUID `json:"grade_id"`
	EnrollmentID  uuid.UUID `json:"enrollment_id"`
	Type          string    `json:"type"`
	Sequence      int       `json:"sequence"`
	Value         float64   `json:"value"`
	IntegrityHash string    `json:"integrity_hash"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModel(ent model.GradeModel) GradeResponse {
	return GradeResponse{
		GradeID:       ent.GradeID,
		EnrollmentID:  ent.GradeCourseEnrollmentID,
		Type:          ent.GradeType,
		Sequence:      ent.GradeSequence,
		Value:         ent.GradeValue,
		IntegrityHash: ent.GradeIntegrityHash,
		UpdatedAt:     ent.GradeUpdatedAt,
	}
}
