package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "siga_backend/internals/features/audit/model"
	helper "siga_backend/internals/helpers"
)

// Read-only view over the audit trail.
type AuditController struct {
	DB *gorm.DB
}

func NewAuditController(db *gorm.DB) *AuditController {
	return &AuditController{DB: db}
}

// GET /admin/audit-logs?entity=&entity_id=&action=
func (ctl *AuditController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 50, 200)

	q := ctl.DB.WithContext(c.Context()).Model(&model.AuditLogModel{})
	if entity := strings.TrimSpace(c.Query("entity")); entity != "" {
		q = q.Where("audit_log_entity = ?", entity)
	}
	if raw := strings.TrimSpace(c.Query("entity_id")); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid entity_id")
		}
		q = q.Where("audit_log_entity_id = ?", entityID)
	}
	if action := strings.TrimSpace(c.Query("action")); action != "" {
		q = q.Where("audit_log_action = ?", action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}

	var rows []model.AuditLogModel
	if err := q.Order("audit_log_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list audit logs")
	}
	return helper.JsonList(c, "", rows, helper.BuildPagination(paging, total))
}
