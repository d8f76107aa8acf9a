package implementation

import (
	"context"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/mapper"
	"agency-ops-be/internal/model"
	"agency-ops-be/internal/repository/contract"
	"agency-ops-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db     *gorm.DB
	mapper *mapper.AuditLogMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.IAuditLogRepository {
	return &auditLogRepository{
		db:     db,
		mapper: mapper.NewAuditLogMapper(),
	}
}

func (r *auditLogRepository) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	m := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.Id = m.Id
	return nil
}

func (r *auditLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error) {
	var models []*model.AuditLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AuditLog, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *auditLogRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.AuditLog{}).Count(&count).Error
	return count, err
}
