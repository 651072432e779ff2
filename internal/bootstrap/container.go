package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-helpdesk-be/internal/config"
	"ai-helpdesk-be/internal/controller"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/pkg/mailer"
	"ai-helpdesk-be/internal/repository/implementation"
	"ai-helpdesk-be/internal/service"
	"ai-helpdesk-be/pkg/alignment"
	"ai-helpdesk-be/pkg/chathistory"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/llm/factory"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rails"
	"ai-helpdesk-be/pkg/urgency"
	"ai-helpdesk-be/pkg/voice"

	pktNats "ai-helpdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	QueryController   controller.IQueryController
	UrgencyController controller.IUrgencyController

	// Background Services (Exposed for main.go to run)
	AlertConsumerService service.IAlertConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIAPIKey,
		providerBaseURL(cfg),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 4. Repositories
	contentRepo := implementation.NewContentRepository(db)
	urgencyRuleRepo := implementation.NewUrgencyRuleRepository(db)
	queryLogRepo := implementation.NewQueryLogRepository(db)

	// 5. Pipeline Components
	railRunner := rails.NewRunner(
		sysLogger,
		rails.NewLanguageRail(llmProvider, cfg.Rails.SupportedLanguages, cfg.Rails.SupportedScripts),
		rails.NewSafetyRail(llmProvider),
		rails.NewTranslateRail(llmProvider, cfg.Rails.TargetLanguage),
		rails.NewParaphraseRail(llmProvider),
	)

	retriever := search.NewRetriever(embeddingProvider, contentRepo, cfg.Retrieval.TopN)
	generator := response.NewGenerator(llmProvider, sysLogger)

	if !alignment.ValidMethod(cfg.Alignment.Method) {
		log.Fatalf("[FATAL] Unknown alignment method: %s", cfg.Alignment.Method)
	}
	var scorer alignment.Scorer
	switch cfg.Alignment.Method {
	case alignment.MethodAlignScore:
		scorer = alignment.NewAlignScoreClient(cfg.Alignment.AlignScoreURL)
	case alignment.MethodLLM:
		scorer = alignment.NewLLMScorer(llmProvider)
	}
	checker := alignment.NewChecker(cfg.Alignment.Method, scorer, cfg.Alignment.Threshold, sysLogger)

	// 6. Chat History
	chatStore := chathistory.NewRedisStore(rdb, time.Duration(cfg.Chat.HistoryTTLMinutes)*time.Minute)
	modelRegistry := chathistory.NewConfigRegistry(
		chathistory.Limits{
			MaxInputTokens:  cfg.Chat.DefaultMaxInputTokens,
			MaxOutputTokens: cfg.Chat.DefaultMaxOutputTokens,
		},
		contextOverrides(cfg),
	)
	chatManager := chathistory.NewManager(
		chatStore,
		modelRegistry,
		chathistory.HeuristicCounter{},
		cfg.Ai.LLMModel,
		cfg.Chat.SystemPrompt,
	)

	synthesizer := voice.NewHTTPSynthesizer(cfg.Ai.TTSBaseURL)

	// 7. Urgency Engine
	urgencyRegistry := urgency.NewRegistry(
		urgency.NewCosineClassifier(embeddingProvider, cfg.Urgency.MaxDistance),
		urgency.NewEntailmentClassifier(llmProvider, cfg.Urgency.MinProbability),
	)
	ruleCacheTTL := time.Duration(cfg.Urgency.RuleCacheTTL) * time.Minute
	ruleCache := gocache.New(ruleCacheTTL, 2*ruleCacheTTL)

	// 8. Services
	queryService := service.NewQueryService(
		railRunner,
		retriever,
		generator,
		checker,
		chatManager,
		synthesizer,
		queryLogRepo,
		natsPub,
		sysLogger,
	)
	urgencyService := service.NewUrgencyService(
		urgencyRuleRepo,
		urgencyRegistry,
		cfg.Urgency.Classifier,
		ruleCache,
		pubSub,
		natsPub,
		sysLogger,
	)
	alertConsumerService := service.NewAlertConsumerService(
		pubSub,
		service.UrgencyAlertTopic,
		emailService,
		cfg.Urgency.AlertEmail,
	)

	return &Container{
		QueryController:   controller.NewQueryController(queryService),
		UrgencyController: controller.NewUrgencyController(urgencyService),

		AlertConsumerService: alertConsumerService,
	}
}

// providerBaseURL picks the endpoint matching the configured backend.
func providerBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.OpenAIBaseURL
}

func contextOverrides(cfg *config.Config) map[string]chathistory.Limits {
	overrides := make(map[string]chathistory.Limits, len(cfg.Chat.ContextOverrides))
	for model, limits := range cfg.Chat.ContextOverrides {
		overrides[model] = chathistory.Limits{
			MaxInputTokens:  limits[0],
			MaxOutputTokens: limits[1],
		}
	}
	return overrides
}
