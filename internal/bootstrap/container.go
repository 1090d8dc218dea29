package bootstrap

import (
	"log"
	"os"

	"gorm.io/gorm"

	"docchat-be/internal/config"
	"docchat-be/internal/controller"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository"
	"docchat-be/pkg/embedding"
	"docchat-be/pkg/embedding/jina"
	"docchat-be/pkg/engine"
	ragengine "docchat-be/pkg/engine/rag"
	"docchat-be/pkg/engine/records"
	"docchat-be/pkg/extract"
	"docchat-be/pkg/llm/factory"
	"docchat-be/pkg/rag/executor"
	"docchat-be/pkg/rag/history"
	"docchat-be/pkg/rag/ingest"
	"docchat-be/pkg/rag/prompt"
	"docchat-be/pkg/rag/query"
	"docchat-be/pkg/rag/relevance"
	"docchat-be/pkg/rag/response"
	"docchat-be/pkg/rag/search"
	"docchat-be/pkg/rag/session"
	"docchat-be/pkg/splitter"
	"docchat-be/pkg/vectorindex"
	"docchat-be/pkg/vectorindex/memory"
	"docchat-be/pkg/vectorindex/pgvector"
)

type Container struct {
	ChatbotController controller.IChatbotController

	SysLogger logger.ILogger

	// Index is exposed so main can close it on shutdown.
	Index vectorindex.Index
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		sysLogger.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{"provider": "jina"})
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		sysLogger.Info("BOOTSTRAP", "Using embedding provider", map[string]interface{}{
			"provider": "ollama",
			"model":    cfg.Ai.OllamaEmbeddingModel,
		})
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 3. Vector Index (pgvector when a database is configured)
	var index vectorindex.Index
	if db != nil {
		index, err = pgvector.NewStore(db)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize vector store: %v", err)
		}
		sysLogger.Info("BOOTSTRAP", "Using vector index", map[string]interface{}{"backend": "pgvector"})
	} else {
		index = memory.NewStore()
		sysLogger.Warn("BOOTSTRAP", "No database configured, using in-memory vector index", nil)
	}

	// 4. RAG Components
	registry := session.NewRegistry()
	historyStore := history.NewStore()
	builder := prompt.NewBuilder()

	ingestor := ingest.NewIngestor(
		registry,
		extract.NewPDFExtractor(),
		splitter.New(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap),
		embeddingProvider,
		index,
		cfg.Ingest.MaxFileSizeMB,
		cfg.Ingest.MaxFileCount,
		ragLogger,
	)

	pipeline := executor.NewPipeline(
		registry,
		historyStore,
		query.NewContextualizer(llmProvider, builder, ragLogger),
		search.NewRetriever(embeddingProvider, index, cfg.Rag.RetrievalK, ragLogger),
		relevance.NewGate(cfg.Rag.SimilarityThreshold, cfg.Rag.MinRelevantDocs, cfg.Rag.MinContextLength, ragLogger),
		response.NewGenerator(llmProvider, builder, cfg.Ai.Temperature, cfg.Ai.MaxTokens, ragLogger),
		ragLogger,
	)

	// 5. Engine Selection
	var chatEngine engine.ChatEngine
	var docEngine *ragengine.Engine

	switch cfg.App.Engine {
	case "records":
		if db == nil {
			log.Fatalf("[FATAL] Records engine requires a database connection")
		}
		recordRepo, err := repository.NewStudentRecordRepository(db)
		if err != nil {
			log.Fatalf("[FATAL] Failed to initialize record repository: %v", err)
		}
		chatEngine = records.NewEngine(recordRepo, historyStore, ragLogger)
		sysLogger.Info("BOOTSTRAP", "Using chat engine", map[string]interface{}{"engine": "records"})
	default:
		docEngine = ragengine.NewEngine(pipeline, ingestor, registry, historyStore, index, ragLogger)
		chatEngine = docEngine
		sysLogger.Info("BOOTSTRAP", "Using chat engine", map[string]interface{}{"engine": "rag"})
	}

	// 6. Controllers
	chatbotController := controller.NewChatbotController(chatEngine, docEngine, sysLogger)

	return &Container{
		ChatbotController: chatbotController,
		SysLogger:         sysLogger,
		Index:             index,
	}
}
