package bootstrap

import (
	"log"

	"agency-ops-be/internal/config"
	"agency-ops-be/internal/controller"
	"agency-ops-be/internal/pkg/logger"
	"agency-ops-be/internal/repository/unitofwork"
	"agency-ops-be/internal/service"
	"agency-ops-be/pkg/embedding"
	"agency-ops-be/pkg/llm"
	"agency-ops-be/pkg/llm/anthropic"
	"agency-ops-be/pkg/llm/gateway"
	"agency-ops-be/pkg/llm/gemini"
	"agency-ops-be/pkg/llm/openai"
	"agency-ops-be/pkg/llm/openrouter"

	pkgNats "agency-ops-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AiController        controller.IAiController
	KnowledgeController controller.IKnowledgeController
	PipelineController  controller.IPipelineController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.Gemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Keys.OpenAI, "", cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	openRouterAdapter := openrouter.NewProvider("")

	// Attempt order is fixed: the model-list-capable family first, then the
	// single-model fallbacks.
	adapters := []llm.ProviderAdapter{
		openRouterAdapter,
		openai.NewProvider("", ""),
		anthropic.NewProvider("", ""),
		gemini.NewProvider("", ""),
	}

	// 4. Services
	resolver := service.NewConfigResolverService(uowFactory, sysLogger, cfg)
	auditRecorder := service.NewAuditService(uowFactory, sysLogger, natsPub)

	gw := gateway.New(resolver, auditRecorder, sysLogger, adapters...)

	reindexPublisher := service.NewReindexPublisherService(pubSub, cfg.Ai.ReindexTopicName)
	knowledgeService := service.NewKnowledgeService(
		uowFactory,
		embeddingProvider,
		reindexPublisher,
		natsPub,
		sysLogger,
		cfg.Ai.ChunkSize,
		cfg.Ai.ChunkOverlap,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.Ai.ReindexTopicName, knowledgeService)

	aiService := service.NewAiService(gw, uowFactory, resolver, sysLogger)
	pipelineService := service.NewPipelineService(
		openRouterAdapter,
		resolver,
		knowledgeService,
		sysLogger,
		cfg.Ai.AgentModel,
	)

	// 5. Controllers
	return &Container{
		AiController:        controller.NewAiController(aiService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		PipelineController:  controller.NewPipelineController(pipelineService),

		ConsumerService: consumerService,
	}
}
