package unitofwork

import (
	"context"

	"agency-ops-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProviderConfigRepository() contract.IProviderConfigRepository
	KnowledgeDocumentRepository() contract.IKnowledgeDocumentRepository
	KnowledgeChunkRepository() contract.IKnowledgeChunkRepository
	AuditLogRepository() contract.IAuditLogRepository
}
