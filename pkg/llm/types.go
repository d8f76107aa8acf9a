package llm

import "github.com/google/uuid"

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Request is a provider-agnostic generation request. Build it once and treat
// it as immutable; the gateway threads the same request through every attempt.
type Request struct {
	Messages        []Message
	Temperature     float64
	MaxOutputTokens int
	TaskCategory    string // drives model policy selection
	WantsStructured bool   // extract a JSON payload from the generated text

	// Audit linkage. CorrelationId is generated by the gateway when empty.
	CorrelationId string
	ActorId       *uuid.UUID
	EntityType    string
	EntityId      *uuid.UUID
}

// Usage holds token accounting reported by the upstream service.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Result is the normalized outcome of one successful generation attempt.
type Result struct {
	ProviderId string
	ModelId    string
	Text       string
	Structured map[string]interface{} // populated only when WantsStructured
	Usage      *Usage
}
