package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/llm"

	"github.com/google/uuid"
)

// CredentialResolver supplies provider credentials and the ordered candidate
// model list for a task category. Implemented by the config resolver service
// (DB rows with a short cache, env fallback).
type CredentialResolver interface {
	Credential(ctx context.Context, providerId string) (string, error)
	CandidateModels(ctx context.Context, taskCategory string) []string
}

// AuditAttempt describes one upstream attempt, successful or not.
type AuditAttempt struct {
	ActorId       *uuid.UUID
	Action        string
	ProviderId    string
	ModelId       string
	Success       bool
	LatencyMs     int64
	TaskCategory  string
	CorrelationId string
	ErrorSummary  string
	EntityType    string
	EntityId      *uuid.UUID
}

// AuditRecorder persists attempt records. Implementations are fire-and-forget:
// RecordAttempt must never fail the caller.
type AuditRecorder interface {
	RecordAttempt(ctx context.Context, attempt AuditAttempt)
}

// attemptRecord accumulates failure reasons for the final aggregate error.
type attemptRecord struct {
	label  string // model id within the first family, provider id otherwise
	reason string
}

// Gateway routes a generation request across provider families in a fixed
// priority order. The first adapter is the model-list-capable family: its
// candidate models are tried in order before falling through to the
// remaining adapters, each tried once with its default model.
type Gateway struct {
	resolver CredentialResolver
	audit    AuditRecorder
	logger   logger.ILogger
	adapters []llm.ProviderAdapter
}

func New(resolver CredentialResolver, audit AuditRecorder, log logger.ILogger, adapters ...llm.ProviderAdapter) *Gateway {
	return &Gateway{
		resolver: resolver,
		audit:    audit,
		logger:   log,
		adapters: adapters,
	}
}

var _ llm.Completer = &Gateway{}

// Complete satisfies llm.Completer.
func (g *Gateway) Complete(ctx context.Context, req llm.Request) (*llm.Result, error) {
	return g.Invoke(ctx, req)
}

// Invoke tries every provider/model option in order and returns the first
// success. It fails only when every option is exhausted, with an aggregate
// error listing each attempted identifier and its failure reason.
func (g *Gateway) Invoke(ctx context.Context, req llm.Request) (*llm.Result, error) {
	if len(g.adapters) == 0 {
		return nil, fmt.Errorf("no provider adapters configured")
	}

	// One correlation id per logical request, threaded through every attempt
	// so all audit rows are linkable.
	if req.CorrelationId == "" {
		req.CorrelationId = uuid.NewString()
	}

	var attempts []attemptRecord

	// 1. First family: iterate the candidate model list.
	primary := g.adapters[0]
	apiKey, err := g.resolver.Credential(ctx, primary.Id())
	if err != nil {
		// Missing credential with no env fallback is a configuration error,
		// surfaced immediately and never retried.
		return nil, fmt.Errorf("resolve credential for %s: %w", primary.Id(), err)
	}

	candidates := g.resolver.CandidateModels(ctx, req.TaskCategory)
	for _, modelId := range candidates {
		result, err := g.attempt(ctx, primary, req, apiKey, modelId)
		if err == nil {
			return g.finish(result, req)
		}

		attempts = append(attempts, attemptRecord{label: modelId, reason: err.Error()})

		if !RetryNextModel(err.Error()) {
			g.logger.Warn("gateway", "abandoning provider family after non-retryable failure", map[string]interface{}{
				"provider":       primary.Id(),
				"model":          modelId,
				"correlation_id": req.CorrelationId,
			})
			break
		}
	}

	// 2. Remaining families, each tried once with its default model.
	for _, adapter := range g.adapters[1:] {
		apiKey, err := g.resolver.Credential(ctx, adapter.Id())
		if err != nil {
			attempts = append(attempts, attemptRecord{label: adapter.Id(), reason: err.Error()})
			continue
		}

		result, err := g.attempt(ctx, adapter, req, apiKey, "")
		if err == nil {
			return g.finish(result, req)
		}

		attempts = append(attempts, attemptRecord{label: adapter.Id(), reason: err.Error()})
	}

	parts := make([]string, len(attempts))
	for i, a := range attempts {
		parts[i] = fmt.Sprintf("%s: %s", a.label, a.reason)
	}
	return nil, fmt.Errorf("all providers failed: %s", strings.Join(parts, "; "))
}

// attempt performs one upstream call and records its audit row.
func (g *Gateway) attempt(ctx context.Context, adapter llm.ProviderAdapter, req llm.Request, apiKey, modelId string) (*llm.Result, error) {
	start := time.Now()
	result, err := adapter.Complete(ctx, req, apiKey, modelId)
	latency := time.Since(start).Milliseconds()

	attempt := AuditAttempt{
		ActorId:       req.ActorId,
		Action:        "ai_invoke",
		ProviderId:    adapter.Id(),
		ModelId:       modelId,
		Success:       err == nil,
		LatencyMs:     latency,
		TaskCategory:  req.TaskCategory,
		CorrelationId: req.CorrelationId,
		EntityType:    req.EntityType,
		EntityId:      req.EntityId,
	}
	if err != nil {
		attempt.ErrorSummary = err.Error()
	} else if result != nil {
		attempt.ModelId = result.ModelId
	}
	g.audit.RecordAttempt(ctx, attempt)

	return result, err
}

// finish applies structured-output extraction to a successful result.
// A missing JSON payload is a distinct parse failure, not retried.
func (g *Gateway) finish(result *llm.Result, req llm.Request) (*llm.Result, error) {
	if !req.WantsStructured {
		return result, nil
	}

	structured, err := llm.ExtractJSON(result.Text)
	if err != nil {
		return nil, fmt.Errorf("structured output requested: %w", err)
	}
	result.Structured = structured
	return result, nil
}
