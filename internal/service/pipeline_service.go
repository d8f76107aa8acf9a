package service

import (
	"context"
	"strings"

	"agency-ops-be/internal/dto"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/pkg/agent"
	"agency-ops-be/pkg/llm"
	"agency-ops-be/pkg/llm/gateway"

	"github.com/google/uuid"
)

type IPipelineService interface {
	Kickoff(ctx context.Context, req *dto.KickoffRequest) (*dto.KickoffResponse, error)
}

// pipelineService assembles a crew from a declarative request and runs it.
// Agents call one provider directly; the fallback chain is an invoke-path
// concern, agent failures surface as output text instead.
type pipelineService struct {
	adapter          llm.ProviderAdapter
	resolver         IConfigResolverService
	knowledgeService IKnowledgeService
	logger           logger.ILogger
	defaultModel     string
}

func NewPipelineService(
	adapter llm.ProviderAdapter,
	resolver IConfigResolverService,
	knowledgeService IKnowledgeService,
	sysLogger logger.ILogger,
	defaultModel string,
) IPipelineService {
	return &pipelineService{
		adapter:          adapter,
		resolver:         resolver,
		knowledgeService: knowledgeService,
		logger:           sysLogger,
		defaultModel:     defaultModel,
	}
}

func (s *pipelineService) Kickoff(ctx context.Context, req *dto.KickoffRequest) (*dto.KickoffResponse, error) {
	crew := agent.NewCrew(req.Name, agent.ProcessMode(req.ProcessMode))

	agentIds := make(map[string]uuid.UUID, len(req.Agents))
	for _, spec := range req.Agents {
		modelId := spec.Model
		if modelId == "" {
			modelId = s.defaultModel
		}

		var tools []agent.Tool
		if spec.UseBrandSearch {
			tools = append(tools, &brandSearchTool{
				knowledgeService: s.knowledgeService,
				ownerId:          req.OwnerId,
			})
		}

		member := agent.New(agent.Definition{
			Name:            spec.Name,
			Role:            spec.Role,
			Objective:       spec.Objective,
			Backstory:       spec.Backstory,
			ModelId:         modelId,
			Temperature:     spec.Temperature,
			MaxOutputTokens: spec.MaxOutputTokens,
			Tools:           tools,
		}, gateway.NewDirectClient(s.adapter, s.resolver, modelId), s.logger)

		crew.AddAgent(member)
		agentIds[spec.Name] = member.Id()
	}

	for _, task := range req.Tasks {
		// Unknown names still become tasks; Kickoff reports them as the
		// structural failure they are.
		crew.AddTask(agentIds[task.AgentName], task.Description)
	}

	seed := req.SeedText
	if req.SeedFromKB {
		if summary := s.knowledgeService.BuildContextSummary(ctx, req.OwnerId); summary != "" {
			if seed != "" {
				seed = seed + "\n\n" + summary
			} else {
				seed = summary
			}
		}
	}

	result, err := crew.Kickoff(ctx, seed)
	if err != nil {
		return s.mapResult(result), err
	}
	return s.mapResult(result), nil
}

func (s *pipelineService) mapResult(result *agent.CrewResult) *dto.KickoffResponse {
	if result == nil {
		return &dto.KickoffResponse{}
	}

	taskResults := make([]dto.TaskResultResponse, len(result.TaskResults))
	for i, tr := range result.TaskResults {
		taskResults[i] = dto.TaskResultResponse{
			AgentId:   tr.AgentId,
			AgentName: tr.AgentName,
			Output:    tr.Output,
			ElapsedMs: tr.ElapsedMs,
		}
		if tr.Usage != nil {
			taskResults[i].Usage = &dto.TokenUsage{
				InputTokens:  tr.Usage.InputTokens,
				OutputTokens: tr.Usage.OutputTokens,
				TotalTokens:  tr.Usage.TotalTokens,
			}
		}
	}

	return &dto.KickoffResponse{
		TaskResults: taskResults,
		FinalOutput: result.FinalOutput,
		TotalTokens: result.TotalTokens,
		TotalTimeMs: result.TotalTimeMs,
		Success:     result.Success,
	}
}

// brandSearchTool grounds an agent in the owner's knowledge base.
type brandSearchTool struct {
	knowledgeService IKnowledgeService
	ownerId          uuid.UUID
}

func (t *brandSearchTool) Name() string { return "Brand knowledge" }

func (t *brandSearchTool) Description() string {
	return "Searches the owner's brand knowledge base for passages relevant to the task."
}

func (t *brandSearchTool) Run(ctx context.Context, query string) (string, error) {
	matches := t.knowledgeService.Search(ctx, t.ownerId, query, 5, 0.3)
	if len(matches) == 0 {
		return "", nil
	}

	parts := make([]string, len(matches))
	for i, match := range matches {
		parts[i] = match.Chunk.Content
	}
	return strings.Join(parts, "\n\n"), nil
}
