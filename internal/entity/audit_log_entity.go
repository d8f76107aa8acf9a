package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	Id            uuid.UUID
	ActorId       *uuid.UUID
	Action        string
	ProviderId    string
	ModelId       string
	Success       bool
	LatencyMs     int64
	TaskCategory  string
	CorrelationId string
	ErrorSummary  *string
	EntityType    *string
	EntityId      *uuid.UUID
	NewValues     map[string]interface{}
	CreatedAt     time.Time
}
