package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ProcessMode string

const (
	ProcessSequential ProcessMode = "sequential"
	ProcessParallel   ProcessMode = "parallel"
)

type Task struct {
	Id          uuid.UUID
	AgentId     uuid.UUID
	Description string
}

// CrewResult carries every task's result plus the run aggregates. Success is
// false only on structural failure (a task bound to an unregistered agent);
// individual generation failures surface as error text inside task outputs.
type CrewResult struct {
	TaskResults []TaskResult
	FinalOutput string
	TotalTokens int
	TotalTimeMs int64
	Success     bool
}

// Crew is an ordered set of tasks, each bound to one registered agent.
// Mutate only via AddAgent/AddTask before Kickoff.
type Crew struct {
	Id     uuid.UUID
	Name   string
	Mode   ProcessMode
	agents map[uuid.UUID]*Agent
	tasks  []Task
}

func NewCrew(name string, mode ProcessMode) *Crew {
	if mode != ProcessParallel {
		mode = ProcessSequential
	}
	return &Crew{
		Id:     uuid.New(),
		Name:   name,
		Mode:   mode,
		agents: make(map[uuid.UUID]*Agent),
	}
}

func (c *Crew) AddAgent(a *Agent) {
	c.agents[a.Id()] = a
}

func (c *Crew) AddTask(agentId uuid.UUID, description string) {
	c.tasks = append(c.tasks, Task{
		Id:          uuid.New(),
		AgentId:     agentId,
		Description: description,
	})
}

// Kickoff runs every task in declaration order, threading the accumulated
// transcript into each agent's context. Every task depends on the transcript
// built by the ones before it, so parallel mode also runs task-by-task.
func (c *Crew) Kickoff(ctx context.Context, initialContext string) (*CrewResult, error) {
	started := time.Now()

	result := &CrewResult{
		TaskResults: make([]TaskResult, 0, len(c.tasks)),
	}

	transcript := initialContext
	outputs := make([]string, 0, len(c.tasks))

	for _, task := range c.tasks {
		member, ok := c.agents[task.AgentId]
		if !ok {
			result.TotalTimeMs = time.Since(started).Milliseconds()
			return result, fmt.Errorf("task %s references unregistered agent %s", task.Id, task.AgentId)
		}

		taskResult := member.Execute(ctx, task.Description, transcript)
		result.TaskResults = append(result.TaskResults, taskResult)
		outputs = append(outputs, taskResult.Output)

		if taskResult.Usage != nil {
			result.TotalTokens += taskResult.Usage.TotalTokens
		}

		entry := fmt.Sprintf("[Result of %s]: %s", taskResult.AgentName, taskResult.Output)
		if transcript == "" {
			transcript = entry
		} else {
			transcript = transcript + "\n\n" + entry
		}
	}

	result.FinalOutput = strings.Join(outputs, "\n\n---\n\n")
	result.TotalTimeMs = time.Since(started).Milliseconds()
	result.Success = true
	return result, nil
}
