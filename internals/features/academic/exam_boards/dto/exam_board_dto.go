package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	model "siga_backend/internals/features/academic/exam_boards/model"
)

type ExamBoardCreateDTO struct {
	CourseID           uuid.UUID `json:"course_id" validate:"required"`
	AcademicYearID     uuid.UUID `json:"academic_year_id" validate:"required"`
	ExamAt             time.Time `json:"exam_at" validate:"required"`
	EnrollmentDeadline time.Time `json:"enrollment_deadline" validate:"required"`
	Capacity           *int      `json:"capacity" validate:"omitempty,gte=1"`
	Examiners          []string  `json:"examiners" validate:"omitempty,max=5,dive,min=2"`
}

func (p *ExamBoardCreateDTO) ToModel() model.ExamBoardModel {
	ent := model.ExamBoardModel{
		ExamBoardCourseID:           p.CourseID,
		ExamBoardAcademicYearID:     p.AcademicYearID,
		ExamBoardExamAt:             p.ExamAt,
		ExamBoardEnrollmentDeadline: p.EnrollmentDeadline,
		ExamBoardCapacity:           30,
		ExamBoardExaminers:          pq.StringArray(p.Examiners),
		ExamBoardState:              model.BoardStateOpen,
	}
	if p.Capacity != nil {
		ent.ExamBoardCapacity = *p.Capacity
	}
	return ent
}

type ExamEnrollDTO struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type ExamGradeDTO struct {
	Grade float64 `json:"grade" validate:"gte=0,lte=10"`
}

type ExamBoardResponse struct {
	ExamBoardID        uuid.UUID  `json:"exam_board_id"`
	CourseID           uuid.UUID  `json:"course_id"`
	AcademicYearID     uuid.UUID  `json:"academic_year_id"`
	ExamAt             time.Time  `json:"exam_at"`
	EnrollmentDeadline time.Time  `json:"enrollment_deadline"`
	Capacity           int        `json:"capacity"`
	Examiners          []string   `json:"examiners,omitempty"`
	State              string     `json:"state"`
	FinalizedAt        *time.Time `json:"finalized_at,omitempty"`
}

func FromModel(ent model.ExamBoardModel) ExamBoardResponse {
	return ExamBoardResponse{
		ExamBoardID:        ent.ExamBoardID,
		CourseID:           ent.ExamBoardCourseID,
		AcademicYearID:     ent.ExamBoardAcademicYearID,
		ExamAt:             ent.ExamBoardExamAt,
		EnrollmentDeadline: ent.ExamBoardEnrollmentDeadline,
		Capacity:           ent.ExamBoardCapacity,
		Examiners:          []string(ent.ExamBoardExaminers),
		State:              ent.ExamBoardState,
		FinalizedAt:        ent.ExamBoardFinalizedAt,
	}
}

type ExamEnrollmentResponse struct {
	ExamEnrollmentID   uuid.UUID `json:"exam_enrollment_id"`
	ExamBoardID        uuid.UUID `json:"exam_board_id"`
	StudentID          uuid.UUID `json:"student_id"`
	CourseEnrollmentID uuid.UUID `json:"course_enrollment_id"`
	Standing           string    `json:"standing"`
	Outcome            string    `json:"outcome"`
	Grade              *float64  `json:"grade,omitempty"`
}

func EnrollmentFromModel(ent model.ExamEnrollmentModel) ExamEnrollmentResponse {
	return ExamEnrollmentResponse{
		ExamEnrollmentID:   ent.ExamEnrollmentID,
		ExamBoardID:        ent.ExamEnrollmentExamBoardID,
		StudentID:          ent.ExamEnrollmentStudentID,
		CourseEnrollmentID: ent.ExamEnrollmentCourseEnrollmentID,
		Standing:           ent.ExamEnrollmentStanding,
		Outcome:            ent.ExamEnrollmentOutcome,
		Grade:              ent.ExamEnrollmentGrade,
	}
}
