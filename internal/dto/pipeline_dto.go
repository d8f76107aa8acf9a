package dto

import "github.com/google/uuid"

type PipelineAgentRequest struct {
	Name            string  `json:"name" validate:"required"`
	Role            string  `json:"role" validate:"required"`
	Objective       string  `json:"objective"`
	Backstory       string  `json:"backstory"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	UseBrandSearch  bool    `json:"use_brand_search"`
}

type PipelineTaskRequest struct {
	AgentName   string `json:"agent_name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type KickoffRequest struct {
	Name        string                 `json:"name"`
	ProcessMode string                 `json:"process_mode" validate:"omitempty,oneof=sequential parallel"`
	OwnerId     uuid.UUID              `json:"owner_id" validate:"required"`
	Agents      []PipelineAgentRequest `json:"agents" validate:"required,min=1,dive"`
	Tasks       []PipelineTaskRequest  `json:"tasks" validate:"required,min=1,dive"`
	SeedText    string                 `json:"seed_text"`
	SeedFromKB  bool                   `json:"seed_from_knowledge"`
}

type TaskResultResponse struct {
	AgentId   uuid.UUID   `json:"agent_id"`
	AgentName string      `json:"agent_name"`
	Output    string      `json:"output"`
	Usage     *TokenUsage `json:"usage,omitempty"`
	ElapsedMs int64       `json:"elapsed_ms"`
}

type KickoffResponse struct {
	TaskResults []TaskResultResponse `json:"task_results"`
	FinalOutput string               `json:"final_output"`
	TotalTokens int                  `json:"total_tokens"`
	TotalTimeMs int64                `json:"total_time_ms"`
	Success     bool                 `json:"success"`
}
