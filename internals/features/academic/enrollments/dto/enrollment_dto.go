package dto

import (
	"time"

	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/enrollments/model"
)

type EnrollDTO struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	SectionID uuid.UUID `json:"section_id" validate:"required"`
}

type EnrollmentResponse struct {
	EnrollmentID      uuid.UUID  `json:"enrollment_id"`
	StudentID         uuid.UUID  `json:"student_id"`
	SectionID         uuid.UUID  `json:"section_id"`
	Condition         string     `json:"condition"`
	CourseworkAverage *float64   `json:"coursework_average,omitempty"`
	RegularizedAt     *time.Time `json:"regularized_at,omitempty"`
	FinalStatus       string     `json:"final_status"`
	FinalGrade        *float64   `json:"final_grade,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func FromModel(ent model.CourseEnrollmentModel) EnrollmentResponse {
	return EnrollmentResponse{
		EnrollmentID:      ent.CourseEnrollmentID,
		StudentID:         ent.CourseEnrollmentStudentID,
		SectionID:         ent.CourseEnrollmentSectionID,
		Condition:         ent.CourseEnrollmentCondition,
		CourseworkAverage: ent.CourseEnrollmentCourseworkAverage,
		RegularizedAt:     ent.CourseEnrollmentRegularizedAt,
		FinalStatus:       ent.CourseEnrollmentFinalStatus,
		FinalGrade:        ent.CourseEnrollmentFinalGrade,
		ClosedAt:          ent.CourseEnrollmentClosedAt,
		CreatedAt:         ent.CourseEnrollmentCreatedAt,
	}
}
