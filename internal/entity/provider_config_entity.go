package entity

import (
	"time"

	"github.com/google/uuid"
)

// ModelPolicy holds ordered candidate model lists: a default list plus
// optional per-task-category overrides.
type ModelPolicy struct {
	Default []string            `json:"default"`
	Tasks   map[string][]string `json:"tasks,omitempty"`
}

type ProviderConfig struct {
	Id          uuid.UUID
	ProviderId  string
	ApiKey      string
	ModelPolicy *ModelPolicy
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
