package agent

import "context"

// Tool is a capability an agent may consult before generating. Tools are
// best-effort: a failing tool never aborts the task that invoked it.
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, query string) (string, error)
}
