package dto

import (
	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/students/model"
)

type StudentCreateDTO struct {
	DNI       string `json:"dni" validate:"required,min=6,max=20"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
}

func (p *StudentCreateDTO) ToModel() model.StudentModel {
	return model.StudentModel{
		StudentDNI:       p.DNI,
		StudentFirstName: p.FirstName,
		StudentLastName:  p.LastName,
		StudentEmail:     p.Email,
		StudentStatus:    model.StudentStatusActive,
	}
}

type StudentUpdateDTO struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Status    *string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
}

type StudentResponse struct {
	StudentID        uuid.UUID `json:"student_id"`
	DNI              string    `json:"dni"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	Status           string    `json:"status"`
	EnrollmentNumber string    `json:"enrollment_number"`
}

func FromModel(ent model.StudentModel) StudentResponse {
	return StudentResponse{
		StudentID:        ent.StudentID,
		DNI:              ent.StudentDNI,
		FirstName:        ent.StudentFirstName,
		LastName:         ent.StudentLastName,
		FullName:         ent.FullName(),
		Email:            ent.StudentEmail,
		Status:           ent.StudentStatus,
		EnrollmentNumber: ent.StudentEnrollmentNumber,
	}
}
