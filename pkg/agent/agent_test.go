package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/llm"
)

// fakeCompleter records prompts and returns scripted outcomes in call order.
type fakeCompleter struct {
	requests []llm.Request
	outputs  []string
	errs     []error
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (*llm.Result, error) {
	idx := len(f.requests)
	f.requests = append(f.requests, req)

	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}

	output := "default output"
	if idx < len(f.outputs) {
		output = f.outputs[idx]
	}
	return &llm.Result{
		Text:  output,
		Usage: &llm.Usage{InputTokens: 20, OutputTokens: 10, TotalTokens: 30},
	}, nil
}

type fakeTool struct {
	name    string
	output  string
	err     error
	queries []string
}

func (f *fakeTool) Name() string        { return f.name }
func (f *fakeTool) Description() string { return "test tool" }
func (f *fakeTool) Run(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.output, f.err
}

func TestAgentExecuteBuildsPrompts(t *testing.T) {
	completer := &fakeCompleter{outputs: []string{"done"}}
	a := New(Definition{
		Name:      "Strategist",
		Role:      "a senior brand strategist",
		Objective: "position the brand",
		Backstory: "ten years in agency work",
	}, completer, logger.NewNopLogger())

	result := a.Execute(context.Background(), "Draft a positioning statement", "The brand sells coffee.")

	if result.Output != "done" {
		t.Errorf("Output = %q", result.Output)
	}
	if result.AgentName != "Strategist" {
		t.Errorf("AgentName = %q", result.AgentName)
	}
	if result.Usage == nil || result.Usage.TotalTokens != 30 {
		t.Errorf("Usage = %+v", result.Usage)
	}

	req := completer.requests[0]
	if req.Messages[0].Role != "system" {
		t.Fatalf("first message role = %q, want system", req.Messages[0].Role)
	}
	system := req.Messages[0].Content
	for _, want := range []string{"Strategist", "senior brand strategist", "position the brand", "ten years"} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	user := req.Messages[1].Content
	if !strings.Contains(user, "Draft a positioning statement") || !strings.Contains(user, "The brand sells coffee.") {
		t.Errorf("user prompt missing task or context: %q", user)
	}
}

func TestAgentExecuteFailureBecomesOutput(t *testing.T) {
	completer := &fakeCompleter{errs: []error{errors.New("upstream exploded")}}
	a := New(Definition{Name: "Writer", Role: "a copywriter"}, completer, logger.NewNopLogger())

	result := a.Execute(context.Background(), "Write a tagline", "")

	if !strings.Contains(result.Output, "upstream exploded") {
		t.Errorf("error text not surfaced in output: %q", result.Output)
	}
	if !strings.Contains(result.Output, "Writer") {
		t.Errorf("agent name not surfaced in output: %q", result.Output)
	}
}

func TestAgentToolsRunOnlyWithContext(t *testing.T) {
	tool := &fakeTool{name: "Brand knowledge", output: "brand is playful"}
	completer := &fakeCompleter{outputs: []string{"a", "b"}}
	a := New(Definition{Name: "Writer", Role: "a copywriter", Tools: []Tool{tool}}, completer, logger.NewNopLogger())

	// No context: tool must not run.
	a.Execute(context.Background(), "Write a tagline", "")
	if len(tool.queries) != 0 {
		t.Fatalf("tool ran without context: %v", tool.queries)
	}

	// With context: tool runs once with the task text as query.
	a.Execute(context.Background(), "Write a tagline", "some context")
	if len(tool.queries) != 1 || tool.queries[0] != "Write a tagline" {
		t.Fatalf("tool queries = %v", tool.queries)
	}

	user := completer.requests[1].Messages[1].Content
	if !strings.Contains(user, "brand is playful") {
		t.Errorf("tool output missing from prompt: %q", user)
	}
	if !strings.Contains(user, "[Brand knowledge]") {
		t.Errorf("tool section label missing from prompt: %q", user)
	}
}

func TestAgentToolFailureIsOmitted(t *testing.T) {
	tool := &fakeTool{name: "Brand knowledge", err: errors.New("store down")}
	completer := &fakeCompleter{outputs: []string{"fine"}}
	a := New(Definition{Name: "Writer", Role: "a copywriter", Tools: []Tool{tool}}, completer, logger.NewNopLogger())

	result := a.Execute(context.Background(), "Write a tagline", "some context")

	if result.Output != "fine" {
		t.Errorf("Output = %q", result.Output)
	}
	if strings.Contains(completer.requests[0].Messages[1].Content, "store down") {
		t.Error("tool error leaked into the prompt")
	}
}
