package dto

import (
	"time"

	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/sections/model"
)

type SectionCreateDTO struct {
	CourseID       uuid.UUID  `json:"course_id" validate:"required"`
	AcademicYearID uuid.UUID  `json:"academic_year_id" validate:"required"`
	Code           string     `json:"code" validate:"required,min=2,max=20"`
	Weekday        int        `json:"weekday" validate:"gte=0,lte=6"`
	StartTime      string     `json:"start_time" validate:"required,len=5"`
	EndTime        string     `json:"end_time" validate:"required,len=5"`
	Shift          string     `json:"shift" validate:"omitempty,max=20"`
	Capacity       int        `json:"capacity" validate:"required,gte=1"`
	TeacherID      *uuid.UUID `json:"teacher_id"`
}

func (p *SectionCreateDTO) ToModel() model.SectionModel {
	return model.SectionModel{
		SectionCourseID:       p.CourseID,
		SectionAcademicYearID: p.AcademicYearID,
		SectionCode:           p.Code,
		SectionWeekday:        p.Weekday,
		SectionStartTime:      p.StartTime,
		SectionEndTime:        p.EndTime,
		SectionShift:          p.Shift,
		SectionCapacity:       p.Capacity,
		SectionTeacherID:      p.TeacherID,
		SectionState:          model.SectionStateInProgress,
	}
}

type SectionUpdateDTO struct {
	Capacity  *int       `json:"capacity" validate:"omitempty,gte=1"`
	Shift     *string    `json:"shift" validate:"omitempty,max=20"`
	TeacherID *uuid.UUID `json:"teacher_id"`
}

type SectionResponse struct {
	SectionID      uuid.UUID  `json:"section_id"`
	CourseID       uuid.UUID  `json:"course_id"`
	AcademicYearID uuid.UUID  `json:"academic_year_id"`
	Code           string     `json:"code"`
	Weekday        int        `json:"weekday"`
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	Shift          string     `json:"shift,omitempty"`
	Capacity       int        `json:"capacity"`
	TeacherID      *uuid.UUID `json:"teacher_id,omitempty"`
	State          string     `json:"state"`
	FinalizedAt    *time.Time `json:"finalized_at,omitempty"`
}

func FromModel(ent model.SectionModel) SectionResponse {
	return SectionResponse{
		SectionID:      ent.SectionID,
		CourseID:       ent.SectionCourseID,
		AcademicYearID: ent.SectionAcademicYearID,
		Code:           ent.SectionCode,
		Weekday:        ent.SectionWeekday,
		StartTime:      ent.SectionStartTime,
		EndTime:        ent.SectionEndTime,
		Shift:          ent.SectionShift,
		Capacity:       ent.SectionCapacity,
		TeacherID:      ent.SectionTeacherID,
		State:          ent.SectionState,
		FinalizedAt:    ent.SectionFinalizedAt,
	}
}

// TeacherDashboardStats aggregates a teacher's workload across all of
// their sections.
type TeacherDashboardStats struct {
	TeacherID     uuid.UUID `json:"teacher_id"`
	SectionCount  int64     `json:"section_count"`
	ClassesToday  int64     `json:"classes_today"`
	TotalStudents int64     `json:"total_students"`
}

// TeacherSectionStats summarizes one section for the teaching staff
// dashboard.
type TeacherSectionStats struct {
	SectionID       uuid.UUID `json:"section_id"`
	Code            string    `json:"code"`
	State           string    `json:"state"`
	EnrolledCount   int64     `json:"enrolled_count"`
	Capacity        int       `json:"capacity"`
	SeatsLeft       int64     `json:"seats_left"`
	RegularCount    int64     `json:"regular_count"`
	LibreCount      int64     `json:"libre_count"`
	AttendingCount  int64     `json:"attending_count"`
	ClassDatesTotal int64     `json:"class_dates_total"`
}
