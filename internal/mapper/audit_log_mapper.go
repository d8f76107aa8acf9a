package mapper

import (
	"encoding/json"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/model"

	"gorm.io/datatypes"
)

type AuditLogMapper struct{}

func NewAuditLogMapper() *AuditLogMapper {
	return &AuditLogMapper{}
}

func (m *AuditLogMapper) ToEntity(a *model.AuditLog) *entity.AuditLog {
	if a == nil {
		return nil
	}

	var newValues map[string]interface{}
	if len(a.NewValues) > 0 {
		_ = json.Unmarshal(a.NewValues, &newValues)
	}

	return &entity.AuditLog{
		Id:            a.Id,
		ActorId:       a.ActorId,
		Action:        a.Action,
		ProviderId:    a.ProviderId,
		ModelId:       a.ModelId,
		Success:       a.Success,
		LatencyMs:     a.LatencyMs,
		TaskCategory:  a.TaskCategory,
		CorrelationId: a.CorrelationId,
		ErrorSummary:  a.ErrorSummary,
		EntityType:    a.EntityType,
		EntityId:      a.EntityId,
		NewValues:     newValues,
		CreatedAt:     a.CreatedAt,
	}
}

func (m *AuditLogMapper) ToModel(e *entity.AuditLog) *model.AuditLog {
	if e == nil {
		return nil
	}

	var newValuesJson datatypes.JSON
	if e.NewValues != nil {
		if data, err := json.Marshal(e.NewValues); err == nil {
			newValuesJson = data
		}
	}

	return &model.AuditLog{
		Id:            e.Id,
		ActorId:       e.ActorId,
		Action:        e.Action,
		ProviderId:    e.ProviderId,
		ModelId:       e.ModelId,
		Success:       e.Success,
		LatencyMs:     e.LatencyMs,
		TaskCategory:  e.TaskCategory,
		CorrelationId: e.CorrelationId,
		ErrorSummary:  e.ErrorSummary,
		EntityType:    e.EntityType,
		EntityId:      e.EntityId,
		NewValues:     newValuesJson,
		CreatedAt:     e.CreatedAt,
	}
}
