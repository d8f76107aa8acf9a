package service

import (
	"context"
	"fmt"
	"time"

	"agency-ops-be/internal/config"
	"agency-ops-be/internal/entity"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

// primaryProviderId is the model-list-capable family; its stored model
// policy drives candidate selection for every invocation.
const primaryProviderId = "openrouter"

// fallbackModel is the hard-coded last resort: the candidate list is never
// empty even with no stored policy and no override.
const fallbackModel = "openrouter/auto"

const credentialTTL = 60 * time.Second

type IConfigResolverService interface {
	Credential(ctx context.Context, providerId string) (string, error)
	CandidateModels(ctx context.Context, taskCategory string) []string
	Invalidate(providerId string)
}

// cachedConfig is replaced atomically as a whole record; concurrent readers
// may see a stale value for up to the TTL but never a torn one.
type cachedConfig struct {
	config    *entity.ProviderConfig
	fetchedAt time.Time
}

type configResolverService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	cache      *cache.Cache
	envKeys    map[string]string
	override   string
	ttl        time.Duration
	now        func() time.Time // injected for deterministic expiry in tests
}

func NewConfigResolverService(
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
	cfg *config.Config,
) IConfigResolverService {
	return &configResolverService{
		uowFactory: uowFactory,
		logger:     sysLogger,
		// go-cache must never evict on its own: resolve checks fetchedAt
		// against the TTL itself so that an expired entry is still there to
		// serve stale when the store is down.
		cache:      cache.New(cache.NoExpiration, cache.NoExpiration),
		envKeys: map[string]string{
			"openrouter": cfg.Keys.OpenRouter,
			"openai":     cfg.Keys.OpenAI,
			"anthropic":  cfg.Keys.Anthropic,
			"gemini":     cfg.Keys.Gemini,
		},
		override: cfg.Ai.ModelOverride,
		ttl:      credentialTTL,
		now:      time.Now,
	}
}

// Credential returns the API key for one provider: stored row first (cached
// for 60s), env fallback second. Missing both is a configuration error.
func (s *configResolverService) Credential(ctx context.Context, providerId string) (string, error) {
	cfg, err := s.resolve(ctx, providerId)
	if err != nil {
		return "", err
	}
	if cfg != nil && cfg.ApiKey != "" {
		return cfg.ApiKey, nil
	}

	if key := s.envKeys[providerId]; key != "" {
		return key, nil
	}

	return "", fmt.Errorf("no credential configured for provider '%s'", providerId)
}

// CandidateModels produces the ordered, de-duplicated model list for one
// task category: operator override, then the stored per-task policy, then
// the stored default policy, then the hard-coded last resort.
func (s *configResolverService) CandidateModels(ctx context.Context, taskCategory string) []string {
	if s.override != "" {
		return []string{s.override}
	}

	var merged []string

	cfg, err := s.resolve(ctx, primaryProviderId)
	if err == nil && cfg != nil && cfg.ModelPolicy != nil {
		if taskModels, ok := cfg.ModelPolicy.Tasks[taskCategory]; ok {
			merged = append(merged, taskModels...)
		}
		merged = append(merged, cfg.ModelPolicy.Default...)
	}

	merged = append(merged, fallbackModel)

	return dedupePreservingOrder(merged)
}

func (s *configResolverService) Invalidate(providerId string) {
	s.cache.Delete(providerId)
}

// resolve fetches the provider row through the cache. A missing row is
// cached as nil so absent configs do not hammer the store; a store error is
// returned only when there is also nothing cached.
func (s *configResolverService) resolve(ctx context.Context, providerId string) (*entity.ProviderConfig, error) {
	if x, found := s.cache.Get(providerId); found {
		entry := x.(*cachedConfig)
		if s.now().Sub(entry.fetchedAt) < s.ttl {
			return entry.config, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	cfg, err := uow.ProviderConfigRepository().FindByProviderId(ctx, providerId)
	if err != nil {
		// Store unavailable: fall back to whatever is cached, even if stale.
		if x, found := s.cache.Get(providerId); found {
			s.logger.Warn("config_resolver", "config store unavailable, using stale cache", map[string]interface{}{
				"provider": providerId,
				"error":    err.Error(),
			})
			return x.(*cachedConfig).config, nil
		}
		return nil, nil // let env fallback take over
	}

	s.cache.Set(providerId, &cachedConfig{config: cfg, fetchedAt: s.now()}, cache.DefaultExpiration)
	return cfg, nil
}

func dedupePreservingOrder(models []string) []string {
	seen := make(map[string]bool, len(models))
	result := make([]string, 0, len(models))
	for _, m := range models {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}
