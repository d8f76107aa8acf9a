package mapper

import (
	"encoding/json"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/model"

	"gorm.io/datatypes"
)

type ProviderConfigMapper struct{}

func NewProviderConfigMapper() *ProviderConfigMapper {
	return &ProviderConfigMapper{}
}

func (m *ProviderConfigMapper) ToEntity(c *model.ProviderConfig) *entity.ProviderConfig {
	if c == nil {
		return nil
	}

	var policy *entity.ModelPolicy
	if len(c.ModelPolicy) > 0 {
		var p entity.ModelPolicy
		if err := json.Unmarshal(c.ModelPolicy, &p); err == nil {
			policy = &p
		}
		// A malformed policy row degrades to nil; the selector falls back.
	}

	return &entity.ProviderConfig{
		Id:          c.Id,
		ProviderId:  c.ProviderId,
		ApiKey:      c.ApiKey,
		ModelPolicy: policy,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *ProviderConfigMapper) ToModel(e *entity.ProviderConfig) *model.ProviderConfig {
	if e == nil {
		return nil
	}

	var policyJson datatypes.JSON
	if e.ModelPolicy != nil {
		if data, err := json.Marshal(e.ModelPolicy); err == nil {
			policyJson = data
		}
	}

	return &model.ProviderConfig{
		Id:          e.Id,
		ProviderId:  e.ProviderId,
		ApiKey:      e.ApiKey,
		ModelPolicy: policyJson,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
