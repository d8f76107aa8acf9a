package llm

import "context"

// ProviderAdapter normalizes the generic Request into one upstream family's
// wire shape and normalizes the response back into a Result. Adapters must
// embed the upstream HTTP status code in returned error messages; the
// gateway's classifier parses it back out.
type ProviderAdapter interface {
	// Id returns the stable provider identifier (e.g. "openrouter").
	Id() string

	// Complete performs a single generation call against one model.
	Complete(ctx context.Context, req Request, apiKey string, modelId string) (*Result, error)
}

// Completer is the narrow contract agents and services consume: one request
// in, one normalized result out. The fallback gateway implements it, and so
// does DirectClient for callers that bind to a single provider.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}
