package dto

import (
	"github.com/google/uuid"

	model "siga_backend/internals/features/academic/courses/model"
)

type CourseCreateDTO struct {
	Name    string `json:"name" validate:"required,min=2,max=150"`
	Code    string `json:"code" validate:"required,min=2,max=20"`
	Program string `json:"program" validate:"required,min=2,max=150"`
}

func (p *CourseCreateDTO) ToModel() model.CourseModel {
	return model.CourseModel{
		CourseName:    p.Name,
		CourseCode:    p.Code,
		CourseProgram: p.Program,
	}
}

type CourseUpdateDTO struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=150"`
	Program *string `json:"program" validate:"omitempty,min=2,max=150"`
}

type PrerequisiteAddDTO struct {
	PrerequisiteCourseID uuid.UUID `json:"prerequisite_course_id" validate:"required"`
}

type CourseResponse struct {
	CourseID uuid.UUID `json:"course_id"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Program  string    `json:"program"`
}

func FromModel(ent model.CourseModel) CourseResponse {
	return CourseResponse{
		CourseID: ent.CourseID,
		Name:     ent.CourseName,
		Code:     ent.CourseCode,
		Program:  ent.CourseProgram,
	}
}
