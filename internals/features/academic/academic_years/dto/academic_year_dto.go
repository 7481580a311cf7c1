package dto

import (
	"time"

	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/academic_years/model"
)

type AcademicYearCreateDTO struct {
	Name             string     `json:"name" validate:"required,min=3,max=100"`
	StartDate        time.Time  `json:"start_date" validate:"required"`
	EndDate          time.Time  `json:"end_date" validate:"required"`
	PassingGrade     *float64   `json:"passing_grade" validate:"omitempty,gte=0,lte=10"`
	MinAttendancePct *float64   `json:"min_attendance_pct" validate:"omitempty,gte=0,lte=100"`
	ClosureEnabled   bool       `json:"closure_enabled"`
	ClosureDeadline  *time.Time `json:"closure_deadline"`
}

func (p *AcademicYearCreateDTO) ToModel() model.AcademicYearModel {
	ent := model.AcademicYearModel{
		AcademicYearName:             p.Name,
		AcademicYearStartDate:        p.StartDate,
		AcademicYearEndDate:          p.EndDate,
		AcademicYearIsActive:         true,
		AcademicYearPassingGrade:     6.0,
		AcademicYearMinAttendancePct: 75,
		AcademicYearClosureEnabled:   p.ClosureEnabled,
		AcademicYearClosureDeadline:  p.ClosureDeadline,
	}
	if p.PassingGrade != nil {
		ent.AcademicYearPassingGrade = *p.PassingGrade
	}
	if p.MinAttendancePct != nil {
		ent.AcademicYearMinAttendancePct = *p.MinAttendancePct
	}
	return ent
}

type AcademicYearUpdateDTO struct {
	Name             *string    `json:"name" validate:"omitempty,min=3,max=100"`
	PassingGrade     *float64   `json:"passing_grade" validate:"omitempty,gte=0,lte=10"`
	MinAttendancePct *float64   `json:"min_attendance_pct" validate:"omitempty,gte=0,lte=100"`
	ClosureEnabled   *bool      `json:"closure_enabled"`
	ClosureDeadline  *time.Time `json:"closure_deadline"`
	IsActive         *bool      `json:"is_active"`
}

type CalendarDayPatchDTO struct {
	IsClassDay *bool   `json:"is_class_day" validate:"required"`
	Reason     *string `json:"reason" validate:"omitempty,max=200"`
}

type AcademicYearResponse struct {
	AcademicYearID   uuid.UUID  `json:"academic_year_id"`
	Name             string     `json:"name"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	PassingGrade     float64    `json:"passing_grade"`
	MinAttendancePct float64    `json:"min_attendance_pct"`
	ClosureEnabled   bool       `json:"closure_enabled"`
	ClosureDeadline  *time.Time `json:"closure_deadline,omitempty"`
	IsActive         bool       `json:"is_active"`
}

func FromModel(ent model.AcademicYearModel) AcademicYearResponse {
	return AcademicYearResponse{
		AcademicYearID:   ent.AcademicYearID,
		Name:             ent.AcademicYearName,
		StartDate:        ent.AcademicYearStartDate,
		EndDate:          ent.AcademicYearEndDate,
		PassingGrade:     ent.AcademicYearPassingGrade,
		MinAttendancePct: ent.AcademicYearMinAttendancePct,
		ClosureEnabled:   ent.AcademicYearClosureEnabled,
		ClosureDeadline:  ent.AcademicYearClosureDeadline,
		IsActive:         ent.AcademicYearIsActive,
	}
}
