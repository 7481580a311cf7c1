package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "siga_backend/internals/features/academic/attendance/dto"
	service "siga_backend/internals/features/academic/attendance/service"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type AttendanceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.AttendanceService
	Audit     *auditSvc.AuditService
}

func NewAttendanceController(db *gorm.DB, v *validator.Validate) *AttendanceController {
	if v == nil {
		v = validator.New()
	}
	return &AttendanceController{
		DB:        db,
		Validator: v,
		Service:   service.NewAttendanceService(db),
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
   REGISTER
   PUT /admin/attendance
============================================ */

func (ctl *AttendanceController) Register(c *fiber.Ctx) error {
	var p dto.AttendanceRegisterDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	date, err := time.Parse("2006-01-02", p.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}

	row, err := ctl.Service.Register(p.EnrollmentID, date, p.Present)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "attendance", auditSvc.ActionUpdate, row.AttendanceID, actor, nil, row)

	return helper.JsonUpdated(c, "attendance registered", dto.FromModel(*row))
}

/* ============================================
   LIST / PERCENTAGE
   GET /admin/enrollments/:id/attendance
   GET /admin/enrollments/:id/attendance/percentage
============================================ */

func (ctl *AttendanceController) ListForEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	rows, err := ctl.Service.List(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	out := make([]dto.AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonOK(c, "", out)
}

// Percentage reports attendance up to (not including) ?before, which
// defaults to tomorrow so today's class counts.
func (ctl *AttendanceController) Percentage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	before := time.Now().AddDate(0, 0, 1)
	if raw := c.Query("before"); raw != "" {
		before, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid before, want YYYY-MM-DD")
		}
	}

	pct, err := ctl.Service.Percentage(ctl.DB.WithContext(c.Context()), id, before)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "", fiber.Map{
		"enrollment_id": id,
		"before":        before.Format("2006-01-02"),
		"percentage":    pct,
	})
}
