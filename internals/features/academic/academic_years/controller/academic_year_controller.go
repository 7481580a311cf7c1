package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	auditSvc "siga_backend/internals/features/audit/service"
	dto "siga_backend/internals/features/academic/academic_years/dto"
	model "siga_backend/internals/features/academic/academic_years/model"
	service "siga_backend/internals/features/academic/academic_years/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

/* ============================================
   Controller
============================================ */

type AcademicYearController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Calendar  *service.CalendarService
	Audit     *auditSvc.AuditService
}

func NewAcademicYearController(db *gorm.DB, v *validator.Validate) *AcademicYearController {
	if v == nil {
		v = validator.New()
	}
	return &AcademicYearController{
		DB:        db,
		Validator: v,
		Calendar:  service.NewCalendarService(db),
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
   CREATE
   POST /admin/academic-years
============================================ */

func (ctl *AcademicYearController) Create(c *fiber.Ctx) error {
	var p dto.AcademicYearCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	if !p.EndDate.After(p.StartDate) {
		return helper.JsonError(c, fiber.StatusBadRequest, "end_date must be after start_date")
	}

	ent := p.ToModel()

	// Year + full calendar in one transaction: no observable window
	// with a year missing its calendar.
	var generated int
	err := ctl.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ent).Error; err != nil {
			return err
		}
		n, err := ctl.Calendar.GenerateForYear(tx, &ent)
		if err != nil {
			return err
		}
		generated = n
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "must be >") {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		log.Printf("[AcademicYear] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create academic year")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "academic_year", auditSvc.ActionCreate, ent.AcademicYearID, actor, nil, ent)

	log.Printf("[AcademicYear] created id=%s calendar_days=%d", ent.AcademicYearID, generated)
	return helper.JsonCreated(c, "academic year created", fiber.Map{
		"academic_year": dto.FromModel(ent),
		"calendar_days": generated,
	})
}

/* ============================================
   LIST / DETAIL
============================================ */

func (ctl *AcademicYearController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.AcademicYearModel{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list academic years")
	}

	var rows []model.AcademicYearModel
	if err := q.Order("academic_year_start_date DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list academic years")
	}

	out := make([]dto.AcademicYearResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(paging, total))
}

func (ctl *AcademicYearController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.AcademicYearModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "academic_year_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "academic year not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load academic year")
	}
	return helper.JsonOK(c, "", dto.FromModel(ent))
}

/* ============================================
   PATCH
   PATCH /admin/academic-years/:id
============================================ */

func (ctl *AcademicYearController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.AcademicYearModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "academic_year_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "academic year not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load academic year")
	}
	before := ent

	var p dto.AcademicYearUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	if p.Name != nil {
		ent.AcademicYearName = strings.TrimSpace(*p.Name)
	}
	if p.PassingGrade != nil {
		ent.AcademicYearPassingGrade = *p.PassingGrade
	}
	if p.MinAttendancePct != nil {
		ent.AcademicYearMinAttendancePct = *p.MinAttendancePct
	}
	if p.ClosureEnabled != nil {
		ent.AcademicYearClosureEnabled = *p.ClosureEnabled
	}
	if p.ClosureDeadline != nil {
		ent.AcademicYearClosureDeadline = p.ClosureDeadline
	}
	if p.IsActive != nil {
		ent.AcademicYearIsActive = *p.IsActive
	}

	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update academic year")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "academic_year", auditSvc.ActionUpdate, ent.AcademicYearID, actor, before, ent)

	return helper.JsonUpdated(c, "academic year updated", dto.FromModel(ent))
}

/* ============================================
   CALENDAR
   GET   /admin/academic-years/:id/calendar
   PATCH /admin/academic-years/:id/calendar/:date
============================================ */

func (ctl *AcademicYearController) ListCalendar(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	q := ctl.DB.WithContext(c.Context()).
		Where("calendar_day_academic_year_id = ?", id)
	if v := strings.TrimSpace(c.Query("class_days_only")); v == "true" || v == "1" {
		q = q.Where("calendar_day_is_class_day = ?", true)
	}

	var days []model.CalendarDayModel
	if err := q.Order("calendar_day_date ASC").Find(&days).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list calendar")
	}
	return helper.JsonOK(c, "", days)
}

// PatchCalendarDay flips a single day, e.g. to register a movable
// holiday or an extraordinary class day.
func (ctl *AcademicYearController) PatchCalendarDay(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	date, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid date, want YYYY-MM-DD")
	}

	var p dto.CalendarDayPatchDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	var day model.CalendarDayModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("calendar_day_academic_year_id = ? AND calendar_day_date = ?", id, date).
		First(&day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "calendar day not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load calendar day")
	}
	before := day

	day.CalendarDayIsClassDay = *p.IsClassDay
	if p.Reason != nil {
		day.CalendarDayReason = strings.TrimSpace(*p.Reason)
	}
	if err := ctl.DB.WithContext(c.Context()).Save(&day).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update calendar day")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "calendar_day", auditSvc.ActionUpdate, day.CalendarDayID, actor, before, day)

	return helper.JsonUpdated(c, "calendar day updated", day)
}
