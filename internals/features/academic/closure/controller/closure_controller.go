package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	service "siga_backend/internals/features/academic/closure/service"
	auditSvc "siga_backend/internals/features/audit/service"
	helper "siga_backend/internals/helpers"
	helperAuth "siga_backend/internals/helpers/auth"
)

// ClosureController exposes the two batch closure operations. Both are
// admin-only, idempotent at the section level and reject finalized
// sections.
type ClosureController struct {
	DB             *gorm.DB
	Regularization *service.RegularizationService
	FinalClosure   *service.FinalClosureService
	Audit          *auditSvc.AuditService
}

func NewClosureController(db *gorm.DB) *ClosureController {
	return &ClosureController{
		DB:             db,
		Regularization: service.NewRegularizationService(db),
		FinalClosure:   service.NewFinalClosureService(db),
		Audit:          auditSvc.NewAuditService(db),
	}
}

/* ============================================
   CERRAR CURSADA
   POST /admin/sections/:id/regularize
============================================ */

func (ctl *ClosureController) Regularize(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	actor, _ := helperAuth.GetUserID(c)

	result, err := ctl.Regularization.RegularizeSection(id, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	ctl.Audit.Record(c.Context(), "section", auditSvc.ActionUpdate, id, actor, nil, result)
	return helper.JsonOK(c, "section regularized", result)
}

/* ============================================
   CERRAR COMISION
   POST /admin/sections/:id/close
============================================ */

func (ctl *ClosureController) Close(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	actor, _ := helperAuth.GetUserID(c)

	result, err := ctl.FinalClosure.CloseSectionByGrades(id, actor)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	ctl.Audit.Record(c.Context(), "section", auditSvc.ActionUpdate, id, actor, nil, result)
	return helper.JsonOK(c, "section closed", result)
}
