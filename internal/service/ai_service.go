package service

import (
	"context"
	"fmt"
	"strings"

	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/internal/repository/unitofwork"
	"agency-ops-be/pkg/llm"
	"agency-ops-be/pkg/llm/gateway"
)

type IAiService interface {
	Invoke(ctx context.Context, req *dto.InvokeRequest) (*dto.InvokeResponse, error)
	GetProviderConfigs(ctx context.Context) ([]*dto.ProviderConfigResponse, error)
	UpdateModelPolicy(ctx context.Context, providerId string, req *dto.UpdateModelPolicyRequest) error
}

type aiService struct {
	gateway    *gateway.Gateway
	uowFactory unitofwork.RepositoryFactory
	resolver   IConfigResolverService
	logger     logger.ILogger
}

func NewAiService(
	gw *gateway.Gateway,
	uowFactory unitofwork.RepositoryFactory,
	resolver IConfigResolverService,
	sysLogger logger.ILogger,
) IAiService {
	return &aiService{
		gateway:    gw,
		uowFactory: uowFactory,
		resolver:   resolver,
		logger:     sysLogger,
	}
}

func (s *aiService) Invoke(ctx context.Context, req *dto.InvokeRequest) (*dto.InvokeResponse, error) {
	messages := make([]llm.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = llm.Message{Role: m.Role, Content: m.Content}
	}

	result, err := s.gateway.Invoke(ctx, llm.Request{
		Messages:        messages,
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
		TaskCategory:    req.TaskCategory,
		WantsStructured: req.WantsStructured,
		CorrelationId:   req.CorrelationId,
		ActorId:         req.ActorId,
		EntityType:      req.EntityType,
		EntityId:        req.EntityId,
	})
	if err != nil {
		return nil, err
	}

	response := &dto.InvokeResponse{
		Provider:   result.ProviderId,
		Model:      result.ModelId,
		Text:       result.Text,
		Structured: result.Structured,
	}
	if result.Usage != nil {
		response.Usage = &dto.TokenUsage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
			TotalTokens:  result.Usage.TotalTokens,
		}
	}
	return response, nil
}

func (s *aiService) GetProviderConfigs(ctx context.Context) ([]*dto.ProviderConfigResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	configs, err := uow.ProviderConfigRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ProviderConfigResponse, len(configs))
	for i, cfg := range configs {
		responses[i] = &dto.ProviderConfigResponse{
			Id:         cfg.Id,
			ProviderId: cfg.ProviderId,
			ApiKey:     maskApiKey(cfg.ApiKey),
			IsActive:   cfg.IsActive,
			HasPolicy:  cfg.ModelPolicy != nil,
		}
	}
	return responses, nil
}

// UpdateModelPolicy replaces one provider's candidate model policy and drops
// the resolver's cached row so the change takes effect immediately.
func (s *aiService) UpdateModelPolicy(ctx context.Context, providerId string, req *dto.UpdateModelPolicyRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cfg, err := uow.ProviderConfigRepository().FindByProviderId(ctx, providerId)
	if err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("provider '%s' is not configured", providerId)
	}

	cfg.ModelPolicy = &entity.ModelPolicy{
		Default: req.Default,
		Tasks:   req.Tasks,
	}

	if err := uow.ProviderConfigRepository().Update(ctx, cfg); err != nil {
		return err
	}

	s.resolver.Invalidate(providerId)

	s.logger.Info("ai", "model policy updated", map[string]interface{}{
		"provider": providerId,
		"default":  strings.Join(req.Default, ","),
	})
	return nil
}

func maskApiKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
