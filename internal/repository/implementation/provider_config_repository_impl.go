package implementation

import (
	"context"
	"errors"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/mapper"
	"agency-ops-be/internal/model"
	"agency-ops-be/internal/repository/contract"
	"agency-ops-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type providerConfigRepository struct {
	db     *gorm.DB
	mapper *mapper.ProviderConfigMapper
}

func NewProviderConfigRepository(db *gorm.DB) contract.IProviderConfigRepository {
	return &providerConfigRepository{
		db:     db,
		mapper: mapper.NewProviderConfigMapper(),
	}
}

func (r *providerConfigRepository) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *providerConfigRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderConfig, error) {
	var models []model.ProviderConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.ProviderConfig, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(&m)
	}
	return entities, nil
}

func (r *providerConfigRepository) FindByProviderId(ctx context.Context, providerId string) (*entity.ProviderConfig, error) {
	var m model.ProviderConfig
	if err := r.db.WithContext(ctx).Where("provider_id = ? AND is_active = true", providerId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *providerConfigRepository) Create(ctx context.Context, config *entity.ProviderConfig) error {
	if config.Id == uuid.Nil {
		config.Id = uuid.New()
	}
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	config.Id = m.Id
	return nil
}

func (r *providerConfigRepository) Update(ctx context.Context, config *entity.ProviderConfig) error {
	m := r.mapper.ToModel(config)
	return r.db.WithContext(ctx).Save(m).Error
}
