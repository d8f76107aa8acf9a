package service

import (
	"context"
	"strings"
	"time"

	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/internal/repository/unitofwork"
	"agency-ops-be/pkg/events"
	"agency-ops-be/pkg/llm/gateway"
	pkgNats "agency-ops-be/pkg/nats"
)

// auditService persists one row per upstream attempt and mirrors it onto the
// event bus. Both writes are fire-and-forget: an audit failure must never
// abort the caller's request, so everything is logged and swallowed.
type auditService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	natsPub    *pkgNats.Publisher // nil when NATS is unavailable
}

var _ gateway.AuditRecorder = &auditService{}

func NewAuditService(
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
	natsPub *pkgNats.Publisher,
) gateway.AuditRecorder {
	return &auditService{
		uowFactory: uowFactory,
		logger:     sysLogger,
		natsPub:    natsPub,
	}
}

func (s *auditService) RecordAttempt(ctx context.Context, attempt gateway.AuditAttempt) {
	go func() {
		// Detached from the request context: the audit row should land even
		// when the caller's request has already returned.
		writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		record := &entity.AuditLog{
			ActorId:       attempt.ActorId,
			Action:        attempt.Action,
			ProviderId:    attempt.ProviderId,
			ModelId:       attempt.ModelId,
			Success:       attempt.Success,
			LatencyMs:     attempt.LatencyMs,
			TaskCategory:  attempt.TaskCategory,
			CorrelationId: attempt.CorrelationId,
			EntityType:    optionalString(attempt.EntityType),
			EntityId:      attempt.EntityId,
			NewValues: map[string]interface{}{
				"provider":   attempt.ProviderId,
				"model":      attempt.ModelId,
				"success":    attempt.Success,
				"latency_ms": attempt.LatencyMs,
			},
			CreatedAt: time.Now(),
		}
		if attempt.ErrorSummary != "" {
			summary := truncate(attempt.ErrorSummary, 2000)
			record.ErrorSummary = &summary
		}

		uow := s.uowFactory.NewUnitOfWork(writeCtx)
		if err := uow.AuditLogRepository().Create(writeCtx, record); err != nil {
			s.logger.Warn("audit", "failed to persist audit record", map[string]interface{}{
				"provider":       attempt.ProviderId,
				"correlation_id": attempt.CorrelationId,
				"error":          err.Error(),
			})
		}

		s.publishEvent(writeCtx, attempt)
	}()
}

func (s *auditService) publishEvent(ctx context.Context, attempt gateway.AuditAttempt) {
	if s.natsPub == nil {
		return
	}

	event := events.BaseEvent{
		Type: "AI_INVOKE_ATTEMPT",
		Data: map[string]interface{}{
			"provider":       attempt.ProviderId,
			"model":          attempt.ModelId,
			"success":        attempt.Success,
			"latency_ms":     attempt.LatencyMs,
			"task_category":  attempt.TaskCategory,
			"correlation_id": attempt.CorrelationId,
		},
		OccurredAt: time.Now(),
	}

	if err := s.natsPub.Publish(ctx, event); err != nil {
		s.logger.Warn("audit", "failed to publish attempt event", map[string]interface{}{
			"correlation_id": attempt.CorrelationId,
			"error":          err.Error(),
		})
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
