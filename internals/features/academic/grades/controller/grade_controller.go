package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"siga_backend/internals/apperr"
	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	dto "siga_backend/internals/features/academic/grades/dto"
	model "siga_backend/internals/features/academic/grades/model"
	service "siga_backend/internals/features/academic/grades/service"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type GradeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Ledger    *service.GradeLedger
	Audit     *auditSvc.AuditService
}

func NewGradeController(db *gorm.DB, v *validator.Validate) *GradeController {
	if v == nil {
		v = validator.New()
	}
	return &GradeController{
		DB:        db,
		Validator: v,
		Ledger:    service.NewGradeLedger(db),
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
   RECORD (upsert by natural key)
   PUT /admin/grades
============================================ */

func (ctl *GradeController) Record(c *fiber.Ctx) error {
	var p dto.GradeRecordDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	var stored *model.GradeModel
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		var enr enrollModel.CourseEnrollmentModel
		if err := tx.First(&enr, "course_enrollment_id = ?", p.EnrollmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NewNotFound("enrollment not found")
			}
			return err
		}
		g, err := ctl.Ledger.Record(tx, p.EnrollmentID, p.Type, p.Sequence, p.Value)
		if err != nil {
			return err
		}
		stored = g
		return nil
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "grade", auditSvc.ActionUpdate, stored.GradeID, actor, nil, stored)

	return helper.JsonUpdated(c, "grade recorded", dto.FromModel(*stored))
}

/* ============================================
   LIST / AVERAGES / INTEGRITY
   GET /admin/enrollments/:id/grades
   GET /admin/enrollments/:id/grades/averages
   GET /admin/enrollments/:id/grades/verify
============================================ */

func (ctl *GradeController) ListForEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var rows []model.GradeModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("grade_course_enrollment_id = ?", id).
		Order("grade_type ASC, grade_sequence ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list grades")
	}

	out := make([]dto.GradeResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonOK(c, "", out)
}

func (ctl *GradeController) Averages(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	db := ctl.DB.WithContext(c.Context())
	coursework, err := ctl.Ledger.CourseworkAverage(db, id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute averages")
	}
	overall, err := ctl.Ledger.OverallAverage(db, id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute averages")
	}
	effective, err := ctl.Ledger.EffectiveFinalGrade(db, id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute averages")
	}

	return helper.JsonOK(c, "", fiber.Map{
		"enrollment_id":         id,
		"coursework_average":    coursework,
		"overall_average":       overall,
		"effective_final_grade": effective,
	})
}

func (ctl *GradeController) VerifyIntegrity(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	mismatches, err := ctl.Ledger.VerifyIntegrity(ctl.DB.WithContext(c.Context()), id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to verify grades")
	}
	return helper.JsonOK(c, "", fiber.Map{
		"enrollment_id": id,
		"clean":         len(mismatches) == 0,
		"mismatches":    mismatches,
	})
}
