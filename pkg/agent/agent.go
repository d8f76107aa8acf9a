package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/llm"

	"github.com/google/uuid"
)

// Definition is the immutable template an agent executes from. Multiple
// executions share one definition.
type Definition struct {
	Id              uuid.UUID
	Name            string
	Role            string
	Objective       string
	Backstory       string
	ModelId         string
	Temperature     float64
	MaxOutputTokens int
	Tools           []Tool
}

// TaskResult is produced once per task run. It always carries an output:
// when generation fails the output is a readable error string, so a failed
// agent never breaks the pipeline that ran it.
type TaskResult struct {
	AgentId   uuid.UUID
	AgentName string
	Output    string
	Usage     *llm.Usage
	ElapsedMs int64
}

type Agent struct {
	def       Definition
	completer llm.Completer
	logger    logger.ILogger
}

func New(def Definition, completer llm.Completer, sysLogger logger.ILogger) *Agent {
	if def.Id == uuid.Nil {
		def.Id = uuid.New()
	}
	return &Agent{
		def:       def,
		completer: completer,
		logger:    sysLogger,
	}
}

func (a *Agent) Id() uuid.UUID { return a.def.Id }
func (a *Agent) Name() string  { return a.def.Name }

// Execute runs one task against the supplied context. Tools run once each,
// with the task text as query, only when the agent has tools and context was
// supplied. Execute never returns an error: inference failure becomes the
// result's output text.
func (a *Agent) Execute(ctx context.Context, task string, taskContext string) TaskResult {
	started := time.Now()

	result := TaskResult{
		AgentId:   a.def.Id,
		AgentName: a.def.Name,
	}

	userPrompt := a.buildUserPrompt(ctx, task, taskContext)

	req := llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: a.buildSystemPrompt()},
			{Role: "user", Content: userPrompt},
		},
		Temperature:     a.def.Temperature,
		MaxOutputTokens: a.def.MaxOutputTokens,
	}

	res, err := a.completer.Complete(ctx, req)
	result.ElapsedMs = time.Since(started).Milliseconds()
	if err != nil {
		a.logger.Warn("agent", "task generation failed", map[string]interface{}{
			"agent": a.def.Name,
			"error": err.Error(),
		})
		result.Output = fmt.Sprintf("Agent %s could not complete the task: %s", a.def.Name, err.Error())
		return result
	}

	result.Output = res.Text
	result.Usage = res.Usage
	return result
}

func (a *Agent) buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are " + a.def.Name + ", " + a.def.Role + ".")
	if a.def.Objective != "" {
		sb.WriteString("\n\nYour objective: " + a.def.Objective)
	}
	if a.def.Backstory != "" {
		sb.WriteString("\n\nBackground: " + a.def.Backstory)
	}
	return sb.String()
}

func (a *Agent) buildUserPrompt(ctx context.Context, task string, taskContext string) string {
	var sb strings.Builder
	sb.WriteString("Task: " + task)

	if taskContext != "" {
		sb.WriteString("\n\nContext:\n" + taskContext)
	}

	// Tools only run when there is context to ground against.
	if len(a.def.Tools) > 0 && taskContext != "" {
		for _, tool := range a.def.Tools {
			output, err := tool.Run(ctx, task)
			if err != nil {
				a.logger.Warn("agent", "tool invocation failed", map[string]interface{}{
					"agent": a.def.Name,
					"tool":  tool.Name(),
					"error": err.Error(),
				})
				continue
			}
			if output == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n\n[%s]:\n%s", tool.Name(), output))
		}
	}

	return sb.String()
}
