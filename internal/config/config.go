package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Rag      RagConfig
	Ingest   IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	Engine             string // "rag" or "records"
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider    string // "ollama" or "jina"
	OllamaBaseURL        string
	OllamaEmbeddingModel string
	JinaAPIKey           string
	LLMProvider          string // "ollama" or "openai"
	LLMModel             string
	OpenAIBaseURL        string
	OpenAIAPIKey         string
	Temperature          float64
	MaxTokens            int
}

type RagConfig struct {
	RetrievalK          int
	SimilarityThreshold float64
	MinRelevantDocs     int
	MinContextLength    int
	ChunkSize           int
	ChunkOverlap        int
}

type IngestConfig struct {
	MaxFileSizeMB int
	MaxFileCount  int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			Engine:             getEnv("CHAT_ENGINE", "rag"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			JinaAPIKey:           getEnv("JINA_API_KEY", ""),
			LLMProvider:          getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:             getEnv("LLM_MODEL", "llama3"),
			OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:         getEnv("OPENAI_API_KEY", ""),
			Temperature:          getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			MaxTokens:            getEnvAsInt("LLM_MAX_TOKENS", 0),
		},
		Rag: RagConfig{
			RetrievalK:          getEnvAsInt("RAG_RETRIEVAL_K", 8),
			SimilarityThreshold: getEnvAsFloat("RAG_SIMILARITY_THRESHOLD", 0.65),
			MinRelevantDocs:     getEnvAsInt("RAG_MIN_RELEVANT_DOCS", 1),
			MinContextLength:    getEnvAsInt("RAG_MIN_CONTEXT_LENGTH", 200),
			ChunkSize:           getEnvAsInt("RAG_CHUNK_SIZE", 1000),
			ChunkOverlap:        getEnvAsInt("RAG_CHUNK_OVERLAP", 200),
		},
		Ingest: IngestConfig{
			MaxFileSizeMB: getEnvAsInt("INGEST_MAX_FILE_SIZE_MB", 50),
			MaxFileCount:  getEnvAsInt("INGEST_MAX_FILE_COUNT", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
