package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"ai-retrieval-be/internal/config"
	"ai-retrieval-be/internal/controller"
	"ai-retrieval-be/internal/events"
	"ai-retrieval-be/internal/handler"
	"ai-retrieval-be/internal/pkg/logger"
	"ai-retrieval-be/internal/repository/implementation"
	"ai-retrieval-be/internal/service"
	"ai-retrieval-be/pkg/embedding"
	"ai-retrieval-be/pkg/embedding/jina"
	"ai-retrieval-be/pkg/llm/factory"
	"ai-retrieval-be/pkg/retrieval"
	"ai-retrieval-be/pkg/websearch"

	pktNats "ai-retrieval-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	RetrievalController controller.IRetrievalController
	DocumentController  controller.IDocumentController

	// WebSocket surface
	RetrievalWsHandler *handler.RetrievalWsHandler

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	documentRepo := implementation.NewDocumentRepository(db)
	logRepo := implementation.NewRetrievalLogRepository(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := initPipelineLogger()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaApiKey)
		log.Printf("[INFO] Using Embedding Provider: JINA")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiApiKey,
		cfg.Ai.HuggingFaceApiKey,
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
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Session memory: Redis when configured, in-process otherwise
	var sessionStore retrieval.SessionStore
	if cfg.App.RedisURL != "" {
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
		sessionStore = retrieval.NewRedisSessionStore(rdb, cfg.Retrieval.SessionTTL, cfg.Retrieval.MaxSessionMessages, pipelineLogger)
		log.Printf("[INFO] Using Session Store: REDIS (%s)", cfg.App.RedisURL)
	} else {
		sessionStore = retrieval.NewMemorySessionStore(cfg.Retrieval.SessionTTL, cfg.Retrieval.MaxSessionMessages)
		log.Printf("[INFO] Using Session Store: IN-MEMORY")
	}

	// 4. Retrieval Pipeline
	retrievalConfig := retrieval.Config{
		MaxDocs:             cfg.Retrieval.MaxDocs,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		WebSearchMaxResults: cfg.Retrieval.WebSearchMaxResults,
		SessionTTL:          cfg.Retrieval.SessionTTL,
		MaxSessionMessages:  cfg.Retrieval.MaxSessionMessages,
	}

	classifier := retrieval.NewStrategyClassifier(llmProvider, pipelineLogger)
	localSearch := retrieval.NewLocalSearch(embeddingProvider, documentRepo, cfg.Retrieval.SimilarityThreshold, pipelineLogger)
	webSearch := retrieval.NewWebSearch(websearch.NewClient(cfg.Search.SearxngBaseURL), pipelineLogger)

	orchestrator := retrieval.NewOrchestrator(
		retrievalConfig,
		sessionStore,
		classifier,
		localSearch,
		webSearch,
		pipelineLogger,
	)

	// 5. Services
	eventPublisher := events.NewNatsPublisher(natsPub, sysLogger)

	publisherService := service.NewPublisherService(cfg.Retrieval.EmbedTopicName, pubSub)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.Retrieval.EmbedTopicName,
		documentRepo,
		embeddingProvider,
	)

	retrievalService := service.NewRetrievalService(orchestrator, logRepo, eventPublisher, sysLogger)
	documentService := service.NewDocumentService(
		documentRepo,
		publisherService,
		embeddingProvider,
		eventPublisher,
		cfg.Retrieval.SimilarityThreshold,
	)

	// Audit worker persists RETRIEVAL_COMPLETED events
	auditService := service.NewAuditService(logRepo, natsSub, sysLogger)
	if natsSub != nil {
		go auditService.Start()
	}

	// WebSocket surface
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHandler := handler.NewRetrievalWsHandler(retrievalService, wsLogger)

	// 6. Controllers
	return &Container{
		RetrievalController: controller.NewRetrievalController(retrievalService),
		DocumentController:  controller.NewDocumentController(documentService),
		RetrievalWsHandler:  wsHandler,

		IndexerService: indexerService,
	}
}

// initPipelineLogger writes the retrieval pipeline's trace to its own file so
// classify/dispatch/merge lines do not drown the request log.
func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "retrieval.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RETRIEVAL] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
