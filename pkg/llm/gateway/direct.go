package gateway

import (
	"context"

	"agency-ops-be/pkg/llm"
)

// DirectClient binds a single provider adapter and model, bypassing the
// fallback chain. Agents use it: an agent is configured with one model and
// converts failures into output text instead of falling through providers.
type DirectClient struct {
	adapter  llm.ProviderAdapter
	resolver CredentialResolver
	modelId  string
}

var _ llm.Completer = &DirectClient{}

func NewDirectClient(adapter llm.ProviderAdapter, resolver CredentialResolver, modelId string) *DirectClient {
	return &DirectClient{
		adapter:  adapter,
		resolver: resolver,
		modelId:  modelId,
	}
}

func (c *DirectClient) Complete(ctx context.Context, req llm.Request) (*llm.Result, error) {
	apiKey, err := c.resolver.Credential(ctx, c.adapter.Id())
	if err != nil {
		return nil, err
	}
	return c.adapter.Complete(ctx, req, apiKey, c.modelId)
}
