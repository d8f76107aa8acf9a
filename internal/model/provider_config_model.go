package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProviderConfig stores one upstream AI provider's credential and model
// policy. ApiKey is a secret: it must never appear in logs or API responses.
type ProviderConfig struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProviderId  string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	ApiKey      string         `gorm:"type:text;not null"`
	ModelPolicy datatypes.JSON `gorm:"type:jsonb"`
	IsActive    bool           `gorm:"default:true;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (ProviderConfig) TableName() string {
	return "provider_configs"
}
