package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is append-only: one row per upstream attempt, success or failure.
// No soft delete, rows are never updated.
type AuditLog struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorId       *uuid.UUID     `gorm:"type:uuid;index"`
	Action        string         `gorm:"type:varchar(50);not null;index"`
	ProviderId    string         `gorm:"type:varchar(50);not null"`
	ModelId       string         `gorm:"type:varchar(100)"`
	Success       bool           `gorm:"not null"`
	LatencyMs     int64          `gorm:"not null"`
	TaskCategory  string         `gorm:"type:varchar(50)"`
	CorrelationId string         `gorm:"type:varchar(64);index"`
	ErrorSummary  *string        `gorm:"type:text"`
	EntityType    *string        `gorm:"type:varchar(50)"`
	EntityId      *uuid.UUID     `gorm:"type:uuid"`
	NewValues     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"default:now();not null;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
