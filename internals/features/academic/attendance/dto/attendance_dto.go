package dto

import (
	"time"

	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/attendance/model"
)

type AttendanceRegisterDTO struct {
	EnrollmentID uuid.UUID `json:"enrollment_id" validate:"required"`
	Date         string    `json:"date" validate:"required,len=10"`
	Present      bool      `json:"present"`
}

type AttendanceResponse struct {
	AttendanceID uuid.UUID `json:"attendance_id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	Date         time.Time `json:"date"`
	Present      bool      `json:"present"`
}

func FromModel(ent model.AttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: ent.AttendanceID,
		EnrollmentID: ent.AttendanceCourseEnrollmentID,
		Date:         ent.AttendanceDate,
		Present:      ent.AttendanceIsPresent,
	}
}
