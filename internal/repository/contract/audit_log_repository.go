package contract

import (
	"context"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/repository/specification"
)

// IAuditLogRepository is append-only: no update or delete operations exist.
type IAuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
