package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/llm"
)

// fakeAdapter scripts one response per (modelId) call, in call order.
type fakeAdapter struct {
	id      string
	results []fakeOutcome
	calls   []string // model ids in call order
}

type fakeOutcome struct {
	text string
	err  error
}

func (f *fakeAdapter) Id() string { return f.id }

func (f *fakeAdapter) Complete(_ context.Context, _ llm.Request, _ string, modelId string) (*llm.Result, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, modelId)
	if idx >= len(f.results) {
		return nil, fmt.Errorf("%s api error (status 500): no scripted result", f.id)
	}
	out := f.results[idx]
	if out.err != nil {
		return nil, out.err
	}
	return &llm.Result{
		ProviderId: f.id,
		ModelId:    modelId,
		Text:       out.text,
		Usage:      &llm.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

type fakeResolver struct {
	keys       map[string]string
	keyErrs    map[string]error
	candidates []string
}

func (f *fakeResolver) Credential(_ context.Context, providerId string) (string, error) {
	if err, ok := f.keyErrs[providerId]; ok {
		return "", err
	}
	return f.keys[providerId], nil
}

func (f *fakeResolver) CandidateModels(_ context.Context, _ string) []string {
	return f.candidates
}

type fakeAudit struct {
	mu       sync.Mutex
	attempts []AuditAttempt
}

func (f *fakeAudit) RecordAttempt(_ context.Context, attempt AuditAttempt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempt)
}

func (f *fakeAudit) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts)
}

func retryableErr(provider string) error {
	return fmt.Errorf("%s api error (status 503): overloaded", provider)
}

func newTestResolver(candidates ...string) *fakeResolver {
	return &fakeResolver{
		keys:       map[string]string{"openrouter": "k1", "openai": "k2", "anthropic": "k3"},
		candidates: candidates,
	}
}

func TestInvokeFirstCandidateSucceeds(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{{text: "hello"}}}
	audit := &fakeAudit{}

	gw := New(newTestResolver("model-a", "model-b"), audit, logger.NewNopLogger(), primary)

	res, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "hello" {
		t.Errorf("Text = %q, want %q", res.Text, "hello")
	}
	if res.ModelId != "model-a" {
		t.Errorf("ModelId = %q, want %q", res.ModelId, "model-a")
	}
	if audit.count() != 1 {
		t.Errorf("audit records = %d, want 1", audit.count())
	}
}

func TestInvokeRetriesThroughCandidateList(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{err: retryableErr("openrouter")},
		{err: retryableErr("openrouter")},
		{text: "third time lucky"},
	}}
	audit := &fakeAudit{}

	gw := New(newTestResolver("model-a", "model-b", "model-c"), audit, logger.NewNopLogger(), primary)

	res, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Text != "third time lucky" {
		t.Errorf("Text = %q", res.Text)
	}

	wantCalls := []string{"model-a", "model-b", "model-c"}
	if len(primary.calls) != len(wantCalls) {
		t.Fatalf("calls = %v, want %v", primary.calls, wantCalls)
	}
	for i, m := range wantCalls {
		if primary.calls[i] != m {
			t.Errorf("call %d = %q, want %q", i, primary.calls[i], m)
		}
	}

	// One audit record per attempt, failed ones included.
	if audit.count() != 3 {
		t.Errorf("audit records = %d, want 3", audit.count())
	}
}

func TestInvokeAuthFailureAbandonsFamily(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{err: errors.New("openrouter api error (status 401): invalid api key")},
	}}
	fallback := &fakeAdapter{id: "anthropic", results: []fakeOutcome{{text: "fallback answer"}}}
	audit := &fakeAudit{}

	gw := New(newTestResolver("model-a", "model-b", "model-c"), audit, logger.NewNopLogger(), primary, fallback)

	res, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.ProviderId != "anthropic" {
		t.Errorf("ProviderId = %q, want anthropic", res.ProviderId)
	}

	// 401 must not burn the remaining candidates of the same family.
	if len(primary.calls) != 1 {
		t.Errorf("primary calls = %d, want 1", len(primary.calls))
	}
}

func TestInvokeAggregateErrorNamesEveryAttempt(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{err: retryableErr("openrouter")},
		{err: retryableErr("openrouter")},
	}}
	fallback := &fakeAdapter{id: "openai", results: []fakeOutcome{
		{err: errors.New("openai api error (status 500): boom")},
	}}
	audit := &fakeAudit{}

	gw := New(newTestResolver("model-a", "model-b"), audit, logger.NewNopLogger(), primary, fallback)

	_, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Invoke() expected error, got nil")
	}

	for _, ident := range []string{"model-a", "model-b", "openai"} {
		if !strings.Contains(err.Error(), ident) {
			t.Errorf("aggregate error missing %q: %v", ident, err)
		}
	}
	if !strings.Contains(err.Error(), "all providers failed") {
		t.Errorf("aggregate error missing prefix: %v", err)
	}
	if audit.count() != 3 {
		t.Errorf("audit records = %d, want 3", audit.count())
	}
}

func TestInvokePrimaryCredentialFailureIsFatal(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter"}
	resolver := newTestResolver("model-a")
	resolver.keyErrs = map[string]error{"openrouter": errors.New("no credential configured for provider 'openrouter'")}

	gw := New(resolver, &fakeAudit{}, logger.NewNopLogger(), primary)

	_, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("Invoke() expected error, got nil")
	}
	if len(primary.calls) != 0 {
		t.Errorf("primary was called %d times despite missing credential", len(primary.calls))
	}
}

func TestInvokeFallbackCredentialFailureIsSkipped(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{err: retryableErr("openrouter")},
	}}
	noKey := &fakeAdapter{id: "openai"}
	working := &fakeAdapter{id: "anthropic", results: []fakeOutcome{{text: "answer"}}}

	resolver := newTestResolver("model-a")
	resolver.keyErrs = map[string]error{"openai": errors.New("no credential configured for provider 'openai'")}

	gw := New(resolver, &fakeAudit{}, logger.NewNopLogger(), primary, noKey, working)

	res, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.ProviderId != "anthropic" {
		t.Errorf("ProviderId = %q, want anthropic", res.ProviderId)
	}
	if len(noKey.calls) != 0 {
		t.Errorf("credential-less fallback was called %d times", len(noKey.calls))
	}
}

func TestInvokeStructuredOutput(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{text: `Here you go: {"headline": "Fresh brews, zero fuss"} hope it helps`},
	}}

	gw := New(newTestResolver("model-a"), &fakeAudit{}, logger.NewNopLogger(), primary)

	res, err := gw.Invoke(context.Background(), llm.Request{
		Messages:        []llm.Message{{Role: "user", Content: "hi"}},
		WantsStructured: true,
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Structured["headline"] != "Fresh brews, zero fuss" {
		t.Errorf("Structured = %v", res.Structured)
	}
}

func TestInvokeCorrelationIdThreadsThroughAttempts(t *testing.T) {
	primary := &fakeAdapter{id: "openrouter", results: []fakeOutcome{
		{err: retryableErr("openrouter")},
		{text: "ok"},
	}}
	audit := &fakeAudit{}

	gw := New(newTestResolver("model-a", "model-b"), audit, logger.NewNopLogger(), primary)

	if _, err := gw.Invoke(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: "user", Content: "hi"}},
	}); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if audit.count() != 2 {
		t.Fatalf("audit records = %d, want 2", audit.count())
	}
	first := audit.attempts[0].CorrelationId
	if first == "" {
		t.Fatal("correlation id was not generated")
	}
	if audit.attempts[1].CorrelationId != first {
		t.Error("attempts carry different correlation ids")
	}
}
