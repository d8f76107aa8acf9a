package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/llm"

	"github.com/google/uuid"
)

func newMember(t *testing.T, name string, completer *fakeCompleter) *Agent {
	t.Helper()
	return New(Definition{Name: name, Role: "a " + name}, completer, logger.NewNopLogger())
}

func TestKickoffThreadsTranscript(t *testing.T) {
	completer := &fakeCompleter{outputs: []string{"output one", "output two", "output three"}}

	crew := NewCrew("campaign", ProcessSequential)
	a1 := newMember(t, "Researcher", completer)
	a2 := newMember(t, "Strategist", completer)
	a3 := newMember(t, "Writer", completer)
	crew.AddAgent(a1)
	crew.AddAgent(a2)
	crew.AddAgent(a3)
	crew.AddTask(a1.Id(), "research")
	crew.AddTask(a2.Id(), "strategize")
	crew.AddTask(a3.Id(), "write")

	result, err := crew.Kickoff(context.Background(), "seed context")
	if err != nil {
		t.Fatalf("Kickoff() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false, want true")
	}
	if len(result.TaskResults) != 3 {
		t.Fatalf("task results = %d, want 3", len(result.TaskResults))
	}

	// The third agent must see the seed plus both labeled prior outputs, in order.
	thirdPrompt := completer.requests[2].Messages[1].Content
	for _, want := range []string{
		"seed context",
		"[Result of Researcher]: output one",
		"[Result of Strategist]: output two",
	} {
		if !strings.Contains(thirdPrompt, want) {
			t.Errorf("third task context missing %q", want)
		}
	}
	researcherIdx := strings.Index(thirdPrompt, "[Result of Researcher]")
	strategistIdx := strings.Index(thirdPrompt, "[Result of Strategist]")
	if researcherIdx > strategistIdx {
		t.Error("prior outputs are out of declaration order")
	}

	if result.TotalTokens != 90 {
		t.Errorf("TotalTokens = %d, want 90", result.TotalTokens)
	}
	for _, out := range []string{"output one", "output two", "output three"} {
		if !strings.Contains(result.FinalOutput, out) {
			t.Errorf("FinalOutput missing %q", out)
		}
	}
}

func TestKickoffUnregisteredAgentFailsFast(t *testing.T) {
	completer := &fakeCompleter{}
	crew := NewCrew("broken", ProcessSequential)
	a1 := newMember(t, "Researcher", completer)
	crew.AddAgent(a1)
	crew.AddTask(a1.Id(), "research")
	crew.AddTask(uuid.New(), "orphaned task")

	result, err := crew.Kickoff(context.Background(), "")
	if err == nil {
		t.Fatal("Kickoff() expected error for unregistered agent")
	}
	if result.Success {
		t.Error("Success = true on structural failure")
	}
	// The first task ran before the structural failure was hit.
	if len(result.TaskResults) != 1 {
		t.Errorf("task results = %d, want 1", len(result.TaskResults))
	}
}

func TestKickoffGenerationFailureDoesNotStopPipeline(t *testing.T) {
	completer := &fakeCompleter{
		outputs: []string{"first", "", "third"},
		errs:    []error{nil, errors.New("model unavailable"), nil},
	}

	crew := NewCrew("resilient", ProcessSequential)
	a1 := newMember(t, "Researcher", completer)
	a2 := newMember(t, "Strategist", completer)
	a3 := newMember(t, "Writer", completer)
	crew.AddAgent(a1)
	crew.AddAgent(a2)
	crew.AddAgent(a3)
	crew.AddTask(a1.Id(), "research")
	crew.AddTask(a2.Id(), "strategize")
	crew.AddTask(a3.Id(), "write")

	result, err := crew.Kickoff(context.Background(), "")
	if err != nil {
		t.Fatalf("Kickoff() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false; generation failure is not structural")
	}
	if len(result.TaskResults) != 3 {
		t.Fatalf("task results = %d, want 3", len(result.TaskResults))
	}
	if !strings.Contains(result.TaskResults[1].Output, "model unavailable") {
		t.Errorf("failed task output = %q", result.TaskResults[1].Output)
	}
	// The failed task's error text joins the transcript like any other output.
	thirdPrompt := completer.requests[2].Messages[1].Content
	if !strings.Contains(thirdPrompt, "model unavailable") {
		t.Error("failure text missing from downstream transcript")
	}
}

func TestParallelModeRunsSequentially(t *testing.T) {
	var order []string
	completers := make([]*orderedCompleter, 3)
	crew := NewCrew("parallel", ProcessParallel)

	for i := range completers {
		completers[i] = &orderedCompleter{name: fmt.Sprintf("agent-%d", i), order: &order}
		member := New(Definition{Name: completers[i].name, Role: "worker"}, completers[i], logger.NewNopLogger())
		crew.AddAgent(member)
		crew.AddTask(member.Id(), "work")
	}

	result, err := crew.Kickoff(context.Background(), "seed")
	if err != nil {
		t.Fatalf("Kickoff() error = %v", err)
	}
	if !result.Success {
		t.Error("Success = false")
	}

	want := []string{"agent-0", "agent-1", "agent-2"}
	if len(order) != len(want) {
		t.Fatalf("execution order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("execution order = %v, want %v", order, want)
			break
		}
	}
}

type orderedCompleter struct {
	name  string
	order *[]string
}

func (o *orderedCompleter) Complete(_ context.Context, _ llm.Request) (*llm.Result, error) {
	*o.order = append(*o.order, o.name)
	return &llm.Result{Text: o.name + " output"}, nil
}
