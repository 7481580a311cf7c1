package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditLogModel struct {
	AuditLogID       uuid.UUID      `gorm:"type:uuid;primaryKey;column:audit_log_id" json:"audit_log_id"`
	AuditLogEntity   string         `gorm:"type:text;not null;index;column:audit_log_entity" json:"audit_log_entity"`
	AuditLogEntityID uuid.UUID      `gorm:"type:uuid;not null;index;column:audit_log_entity_id" json:"audit_log_entity_id"`
	AuditLogAction   string         `gorm:"type:text;not null;column:audit_log_action" json:"audit_log_action"`
	AuditLogActorID  *uuid.UUID     `gorm:"type:uuid;column:audit_log_actor_id" json:"audit_log_actor_id,omitempty"`
	AuditLogBefore   datatypes.JSON `gorm:"type:jsonb;column:audit_log_before" json:"audit_log_before,omitempty"`
	AuditLogAfter    datatypes.JSON `gorm:"type:jsonb;column:audit_log_after" json:"audit_log_after,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"not null;autoCreateTime;column:audit_log_created_at" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }

func (m *AuditLogModel) BeforeCreate(tx *gorm.DB) error {
	if m.AuditLogID == uuid.Nil {
		m.AuditLogID = uuid.New()
	}
	return nil
}
