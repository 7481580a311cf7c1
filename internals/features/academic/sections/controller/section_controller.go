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

	enrollModel "siga_backend/internals/features/academic/enrollments/model"
	dto "siga_backend/internals/features/academic/sections/dto"
	model "siga_backend/internals/features/academic/sections/model"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type SectionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Audit     *auditSvc.AuditService
}

func NewSectionController(db *gorm.DB, v *validator.Validate) *SectionController {
	if v == nil {
		v = validator.New()
	}
	return &SectionController{DB: db, Validator: v, Audit: auditSvc.NewAuditService(db)}
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

func (ctl *SectionController) Create(c *fiber.Ctx) error {
	var p dto.SectionCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	ent := p.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE"):
			return helper.JsonError(c, fiber.StatusConflict, "a section with that code already exists")
		case strings.Contains(msg, "section_"):
			// BeforeSave validation messages name the offending column.
			return helper.JsonError(c, fiber.StatusBadRequest, msg)
		default:
			log.Printf("[Section] create failed: %v", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create section")
		}
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "section", auditSvc.ActionCreate, ent.SectionID, actor, nil, ent)

	return helper.JsonCreated(c, "section created", dto.FromModel(ent))
}

func (ctl *SectionController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.SectionModel{})
	if raw := strings.TrimSpace(c.Query("course_id")); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid course_id")
		}
		q = q.Where("section_course_id = ?", courseID)
	}
	if raw := strings.TrimSpace(c.Query("academic_year_id")); raw != "" {
		yearID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid academic_year_id")
		}
		q = q.Where("section_academic_year_id = ?", yearID)
	}
	if state := strings.TrimSpace(c.Query("state")); state != "" {
		q = q.Where("section_state = ?", state)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list sections")
	}

	var rows []model.SectionModel
	if err := q.Order("section_code ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list sections")
	}

	out := make([]dto.SectionResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(paging, total))
}

func (ctl *SectionController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.SectionModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load section")
	}
	return helper.JsonOK(c, "", dto.FromModel(ent))
}

func (ctl *SectionController) Patch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var ent model.SectionModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load section")
	}
	if ent.IsFinalized() {
		return helper.JsonError(c, fiber.StatusConflict, "section is finalized and can no longer change")
	}
	before := ent

	var p dto.SectionUpdateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	if p.Capacity != nil {
		ent.SectionCapacity = *p.Capacity
	}
	if p.Shift != nil {
		ent.SectionShift = *p.Shift
	}
	if p.TeacherID != nil {
		ent.SectionTeacherID = p.TeacherID
	}

	if err := ctl.DB.WithContext(c.Context()).Save(&ent).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to update section")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "section", auditSvc.ActionUpdate, ent.SectionID, actor, before, ent)

	return helper.JsonUpdated(c, "section updated", dto.FromModel(ent))
}

/* ============================================
   TEACHER STATS
   GET /admin/sections/:id/stats
============================================ */

func (ctl *SectionController) Stats(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.SectionModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "section_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "section not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load section")
	}

	stats := dto.TeacherSectionStats{
		SectionID: ent.SectionID,
		Code:      ent.SectionCode,
		State:     ent.SectionState,
		Capacity:  ent.SectionCapacity,
	}

	db := ctl.DB.WithContext(c.Context())
	base := db.Model(&enrollModel.CourseEnrollmentModel{}).
		Where("course_enrollment_section_id = ?", id)

	if err := base.Session(&gorm.Session{}).Count(&stats.EnrolledCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	countByCondition := func(cond string, dst *int64) error {
		return db.Model(&enrollModel.CourseEnrollmentModel{}).
			Where("course_enrollment_section_id = ? AND course_enrollment_condition = ?", id, cond).
			Count(dst).Error
	}
	if err := countByCondition(enrollModel.ConditionRegular, &stats.RegularCount); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	if err := countByCondition(enrollModel.ConditionLibre, &stats.LibreCount); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	if err := countByCondition(enrollModel.ConditionAttending, &stats.AttendingCount); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}

	// Weekday filtering happens in Go; date functions differ per
	// dialect and the list is at most one year long.
	var dates []time.Time
	if err := db.Table("calendar_days").
		Where("calendar_day_academic_year_id = ? AND calendar_day_is_class_day = ?", ent.SectionAcademicYearID, true).
		Pluck("calendar_day_date", &dates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}
	for _, d := range dates {
		if int(d.Weekday()) == ent.SectionWeekday {
			stats.ClassDatesTotal++
		}
	}

	stats.SeatsLeft = int64(ent.SectionCapacity) - stats.EnrolledCount
	if stats.SeatsLeft < 0 {
		stats.SeatsLeft = 0
	}
	return helper.JsonOK(c, "", stats)
}

// TeacherStats aggregates across every section assigned to one teacher:
// how many sections they run, how many meet today, and the total
// student headcount. A section counts as meeting today only when today
// is a class day in its academic year's calendar.
func (ctl *SectionController) TeacherStats(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	db := ctl.DB.WithContext(c.Context())

	var sections []model.SectionModel
	if err := db.
		Where("section_teacher_id = ?", teacherID).
		Find(&sections).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load sections")
	}

	stats := dto.TeacherDashboardStats{
		TeacherID:    teacherID,
		SectionCount: int64(len(sections)),
	}
	if len(sections) == 0 {
		return helper.JsonOK(c, "", stats)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	ids := make([]uuid.UUID, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.SectionID)
		if s.SectionWeekday != int(today.Weekday()) || s.IsFinalized() {
			continue
		}
		var classDay int64
		if err := db.Table("calendar_days").
			Where("calendar_day_academic_year_id = ? AND calendar_day_date = ? AND calendar_day_is_class_day = ?",
				s.SectionAcademicYearID, today, true).
			Count(&classDay).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
		}
		if classDay > 0 {
			stats.ClassesToday++
		}
	}

	if err := db.Model(&enrollModel.CourseEnrollmentModel{}).
		Where("course_enrollment_section_id IN ?", ids).
		Count(&stats.TotalStudents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute stats")
	}

	return helper.JsonOK(c, "", stats)
}
