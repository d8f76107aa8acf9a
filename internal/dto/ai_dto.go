package dto

import "github.com/google/uuid"

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

type InvokeRequest struct {
	Messages        []ChatMessage `json:"messages" validate:"required,min=1,dive"`
	Temperature     float64       `json:"temperature"`
	MaxOutputTokens int           `json:"max_output_tokens"`
	TaskCategory    string        `json:"task_category"`
	WantsStructured bool          `json:"wants_structured"`
	CorrelationId   string        `json:"correlation_id"`
	ActorId         *uuid.UUID    `json:"actor_id"`
	EntityType      string        `json:"entity_type"`
	EntityId        *uuid.UUID    `json:"entity_id"`
}

type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type InvokeResponse struct {
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
	Text       string                 `json:"text"`
	Structured map[string]interface{} `json:"structured,omitempty"`
	Usage      *TokenUsage            `json:"usage,omitempty"`
}

type ProviderConfigResponse struct {
	Id         uuid.UUID `json:"id"`
	ProviderId string    `json:"provider_id"`
	ApiKey     string    `json:"api_key"` // always masked
	IsActive   bool      `json:"is_active"`
	HasPolicy  bool      `json:"has_policy"`
}

type UpdateModelPolicyRequest struct {
	Default []string            `json:"default" validate:"required,min=1"`
	Tasks   map[string][]string `json:"tasks"`
}
