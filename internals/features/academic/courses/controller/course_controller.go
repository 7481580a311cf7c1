package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "siga_backend/internals/features/academic/courses/dto"
	model "siga_backend/internals/features/academic/courses/model"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type CourseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Audit     *auditSvc.AuditService
}

func NewCourseController(db *gorm.DB, v *validator.Validate) *CourseController {
	if v == nil {
		v = validator.New()
	}
	return &CourseController{DB: db, Validator: v, Audit: auditSvc.NewAuditService(db)}
}

func bindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if v != nil {
		if err := v.Struct(dst); err != nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
	}
	return nil
}

/* ============================================
   CRUD
============================================ */

func (ctl *CourseController) Create(c *fiber.Ctx) error {
	var p dto.CourseCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	ent := p.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return helper.JsonError(c, fiber.StatusConflict, "a course with that code already exists")
		}
		log.Printf("[Course] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create course")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "course", auditSvc.ActionCreate, ent.CourseID, actor, nil, ent)

	return helper.JsonCreated(c, "course created", dto.FromModel(ent))
}

func (ctl *CourseController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.CourseModel{})
	if program := strings.TrimSpace(c.Query("program")); program != "" {
		q = q.Where("course_program = ?", program)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	var rows []model.CourseModel
	if err := q.Order("course_code ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	out := make([]dto.CourseResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(paging, total))
}

func (ctl *CourseController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load course")
	}
	return helper.JsonOK(c, "", dto.FromModel(ent))
}

func (ctl *CourseController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "course_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load course")
	}
	before := ent

	var p dto.CourseUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	if p.Name != nil {
		ent.CourseName = *p.Name
	}
	if p.Program != nil {
		ent.CourseProgram = *p.Program
	}

	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update course")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "course", auditSvc.ActionUpdate, ent.CourseID, actor, before, ent)

	return helper.JsonUpdated(c, "course updated", dto.FromModel(ent))
}

/* ============================================
   PREREQUISITES (correlativas)
   POST   /admin/courses/:id/prerequisites
   GET    /admin/courses/:id/prerequisites
   DELETE /admin/courses/:id/prerequisites/:prereq_id
============================================ */

func (ctl *CourseController) AddPrerequisite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var p dto.PrerequisiteAddDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	if p.PrerequisiteCourseID == id {
		return helper.JsonError(c, fiber.StatusBadRequest, "a course cannot be its own prerequisite")
	}

	// Both endpoints of the edge must exist.
	var count int64
	if err := ctl.DB.WithContext(c.Context()).Model(&model.CourseModel{}).
		Where("course_id IN ?", []uuid.UUID{id, p.PrerequisiteCourseID}).
		Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to verify courses")
	}
	if count != 2 {
		return helper.JsonError(c, fiber.StatusNotFound, "course not found")
	}

	edge := model.CoursePrerequisiteModel{
		CoursePrerequisiteCourseID:       id,
		CoursePrerequisitePrerequisiteID: p.PrerequisiteCourseID,
	}
	if err := ctl.DB.WithContext(c.Context()).Create(&edge).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return helper.JsonError(c, fiber.StatusConflict, "prerequisite already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to add prerequisite")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "course_prerequisite", auditSvc.ActionCreate, edge.CoursePrerequisiteID, actor, nil, edge)

	return helper.JsonCreated(c, "prerequisite added", edge)
}

func (ctl *CourseController) ListPrerequisites(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var courses []model.CourseModel
	if err := ctl.DB.WithContext(c.Context()).
		Joins("JOIN course_prerequisites ON course_prerequisites.course_prerequisite_prerequisite_id = courses.course_id").
		Where("course_prerequisites.course_prerequisite_course_id = ?", id).
		Order("course_prerequisites.course_prerequisite_created_at ASC").
		Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list prerequisites")
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, r := range courses {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonOK(c, "", out)
}

func (ctl *CourseController) RemovePrerequisite(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	prereqID, err := uuid.Parse(c.Params("prereq_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid prerequisite id")
	}

	result := ctl.DB.WithContext(c.Context()).
		Where("course_prerequisite_course_id = ? AND course_prerequisite_prerequisite_id = ?", id, prereqID).
		Delete(&model.CoursePrerequisiteModel{})
	if result.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to remove prerequisite")
	}
	if result.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "prerequisite not found")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "course_prerequisite", auditSvc.ActionDelete, prereqID, actor, nil, nil)

	return helper.JsonDeleted(c, "prerequisite removed", fiber.Map{
		"course_id":              id,
		"prerequisite_course_id": prereqID,
	})
}
