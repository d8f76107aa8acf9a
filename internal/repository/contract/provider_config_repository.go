package contract

import (
	"context"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/repository/specification"
)

// IProviderConfigRepository defines provider configuration operations
type IProviderConfigRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error)
	FindByProviderId(ctx context.Context, providerId string) (*entity.ProviderConfig, error)
	Create(ctx context.Context, config *entity.ProviderConfig) error
	Update(ctx context.Context, config *entity.ProviderConfig) error
}
