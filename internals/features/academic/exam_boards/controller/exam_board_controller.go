package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "siga_backend/internals/features/academic/exam_boards/dto"
	model "siga_backend/internals/features/academic/exam_boards/model"
	service "siga_backend/internals/features/academic/exam_boards/service"
	gradeService "siga_backend/internals/features/academic/grades/service"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

type ExamBoardController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Boards    *service.ExamBoardService
	Sync      *service.ExamResultSync
	Audit     *auditSvc.AuditService
}

func NewExamBoardController(db *gorm.DB, v *validator.Validate) *ExamBoardController {
	if v == nil {
		v = validator.New()
	}
	return &ExamBoardController{
		DB:        db,
		Validator: v,
		Boards:    service.NewExamBoardService(db),
		Sync:      service.NewExamResultSync(db, gradeService.NewGradeLedger(db)),
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
   CRUD
   POST /admin/exam-boards
   GET  /admin/exam-boards
   GET  /admin/exam-boards/:id
============================================ */

func (ctl *ExamBoardController) Create(c *fiber.Ctx) error {
	var p dto.ExamBoardCreateDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}
	if !p.EnrollmentDeadline.Before(p.ExamAt) {
		return helper.JsonError(c, fiber.StatusBadRequest, "enrollment_deadline must be before exam_at")
	}

	ent := p.ToModel()
	if err := ctl.DB.WithContext(c.Context()).Create(&ent).Error; err != nil {
		log.Printf("[ExamBoard] create failed: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to create exam board")
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "exam_board", auditSvc.ActionCreate, ent.ExamBoardID, actor, nil, ent)

	return helper.JsonCreated(c, "exam board created", dto.FromModel(ent))
}

func (ctl *ExamBoardController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).Model(&model.ExamBoardModel{})
	if raw := strings.TrimSpace(c.Query("course_id")); raw != "" {
		courseID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid course_id")
		}
		q = q.Where("exam_board_course_id = ?", courseID)
	}
	if state := strings.TrimSpace(c.Query("state")); state != "" {
		q = q.Where("exam_board_state = ?", state)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list exam boards")
	}

	var rows []model.ExamBoardModel
	if err := q.Order("exam_board_exam_at ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list exam boards")
	}

	out := make([]dto.ExamBoardResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.FromModel(r))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(paging, total))
}

func (ctl *ExamBoardController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var ent model.ExamBoardModel
	if err := ctl.DB.WithContext(c.Context()).
		First(&ent, "exam_board_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "exam board not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load exam board")
	}
	return helper.JsonOK(c, "", dto.FromModel(ent))
}

/* ============================================
   ENROLLMENT
   POST /admin/exam-boards/:id/enrollments
   GET  /admin/exam-boards/:id/enrollments
============================================ */

func (ctl *ExamBoardController) EnrollStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var p dto.ExamEnrollDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	ent, err := ctl.Boards.EnrollStudent(id, p.StudentID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "exam_enrollment", auditSvc.ActionCreate, ent.ExamEnrollmentID, actor, nil, ent)

	return helper.JsonCreated(c, "exam enrollment created", dto.EnrollmentFromModel(*ent))
}

func (ctl *ExamBoardController) ListEnrollments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	var rows []model.ExamEnrollmentModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("exam_enrollment_exam_board_id = ?", id).
		Order("exam_enrollment_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list exam enrollments")
	}

	out := make([]dto.ExamEnrollmentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.EnrollmentFromModel(r))
	}
	return helper.JsonOK(c, "", out)
}

/* ============================================
   STATE MACHINE
   POST /admin/exam-boards/:id/close-enrollment
   POST /admin/exam-boards/:id/finalize
============================================ */

func (ctl *ExamBoardController) CloseEnrollment(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	board, err := ctl.Boards.CloseEnrollmentWindow(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "exam_board", auditSvc.ActionUpdate, board.ExamBoardID, actor, nil, board)

	return helper.JsonUpdated(c, "enrollment window closed", dto.FromModel(*board))
}

func (ctl *ExamBoardController) Finalize(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}

	board, absents, err := ctl.Boards.Finalize(id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	actor, _ := helperAuth.GetUserID(c)
	ctl.Audit.Record(c.Context(), "exam_board", auditSvc.ActionUpdate, board.ExamBoardID, actor, nil, board)

	return helper.JsonUpdated(c, "exam board finalized", fiber.Map{
		"exam_board":    dto.FromModel(*board),
		"marked_absent": absents,
	})
}

/* ============================================
   GRADE SYNC
   PUT /admin/exam-boards/:id/enrollments/:enrollment_id/grade
============================================ */

func (ctl *ExamBoardController) LoadGrade(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	enrollmentID, err := uuid.Parse(c.Params("enrollment_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}

	var p dto.ExamGradeDTO
	if err := bindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.JsonError(c, err.(*fiber.Error).Code, err.Error())
	}

	actor, _ := helperAuth.GetUserID(c)
	ent, err := ctl.Sync.LoadExamGrade(id, enrollmentID, p.Grade, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	ctl.Audit.Record(c.Context(), "exam_enrollment", auditSvc.ActionUpdate, ent.ExamEnrollmentID, actor, nil, ent)

	return helper.JsonUpdated(c, "exam grade recorded", dto.EnrollmentFromModel(*ent))
}
