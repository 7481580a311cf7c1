package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "siga_backend/internals/features/audit/model"
)

const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditService is a write-only sink. A failed audit write is logged
// and swallowed: it must never roll back the business transaction, so
// Record is always called outside of it, after commit.
type AuditService struct {
	DB *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{DB: db}
}

func (s *AuditService) Record(ctx context.Context, entity, action string, entityID, actorID uuid.UUID, before, after any) {
	entry := model.AuditLogModel{
		AuditLogEntity:   entity,
		AuditLogEntityID: entityID,
		AuditLogAction:   action,
	}
	if actorID != uuid.Nil {
		entry.AuditLogActorID = &actorID
	}
	if before != nil {
		if raw, err := json.Marshal(before); err == nil {
			entry.AuditLogBefore = raw
		}
	}
	if after != nil {
		if raw, err := json.Marshal(after); err == nil {
			entry.AuditLogAfter = raw
		}
	}

	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		log.Printf("[Audit] write failed entity=%s action=%s id=%s: %v", entity, action, entityID, err)
	}
}
