package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "siga_backend/internals/features/academic/enrollments/dto"
	model "siga_backend/internals/features/academic/enrollments/model"
	service "siga_backend/internals/features/academic/enrollments/service"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type EnrollmentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.EnrollmentService
	Audit     *auditSvc.AuditService
}

func NewEnrollmentController(db *gorm.DB, v *validator.Validate) *EnrollmentController {
	if v == nil {
		v = validator.New()
	}
	return &EnrollmentController{
		DB:        db,
		Validator: v,
		Service:   service.NewEnrollmentService(db),
		Audit:     auditSvc.NewAuditService(db),
	}
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
   ENROLL
   POST /admin/enrollments
============================================ */

func (ctl *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var p dto.EnrollDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	ent, err := ctl.Service.Enroll(p.StudentID, p.SectionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "course_enrollment", auditSvc.ActionCreate, ent.CourseEnrollmentID, actor, nil, ent)

	log.Printf("[Enrollment] student=%s section=%s", p.StudentID, p.SectionID)
	return helper.JsonCreated(c, "enrollment created", dto.FromModel(*ent))
}

/* ============================================
   LIST / DETAIL
============================================ */

func (ctl *EnrollmentController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.CourseEnrollmentModel{})
	if raw := strings.TrimSpace(c.Query("section_id")); raw != "" {
		sectionID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid section_id")
		}
		q = q.Where("course_enrollment_section_id = ?", sectionID)
	}
	if raw := strings.TrimSpace(c.Query("student_id")); raw != "" {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid student_id")
		}
		q = q.Where("course_enrollment_student_id = ?", studentID)
	}
	if status := strings.TrimSpace(c.Query("final_status")); status != "" {
		q = q.Where("course_enrollment_final_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list enrollments")
	}

	var rows []model.CourseEnrollmentModel
	if err := q.Order("course_enrollment_created_at ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list enrollments")
	}

	out := make([]dto.EnrollmentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(paging, total))
}

func (ctl *EnrollmentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.CourseEnrollmentModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "course_enrollment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "enrollment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load enrollment")
	}
	return helper.JsonOK(c, "", dto.FromModel(ent))
}
