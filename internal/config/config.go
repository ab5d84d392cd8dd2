package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Search    SearchConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	LLMProvider       string // "gemini", "ollama" or "huggingface"
	LLMModel          string // e.g. "gemini-2.0-flash", "llama3"
	GeminiApiKey      string
	JinaApiKey        string
	HuggingFaceApiKey string
	OllamaBaseURL     string
	OllamaEmbedModel  string
}

type SearchConfig struct {
	SearxngBaseURL string
}

// RetrievalConfig carries the tuning knobs of the retrieval pipeline.
// Defaults match the reference deployment.
type RetrievalConfig struct {
	MaxDocs             int
	SimilarityThreshold float64
	WebSearchMaxResults int
	SessionTTL          time.Duration
	MaxSessionMessages  int
	EmbedTopicName      string
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
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaApiKey:        getEnv("JINA_API_KEY", ""),
			HuggingFaceApiKey: getEnv("HUGGINGFACE_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Search: SearchConfig{
			SearxngBaseURL: getEnv("SEARXNG_BASE_URL", "http://localhost:8888"),
		},
		Retrieval: RetrievalConfig{
			MaxDocs:             getEnvAsInt("RETRIEVAL_MAX_DOCS", 5),
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.7),
			WebSearchMaxResults: getEnvAsInt("WEB_SEARCH_MAX_RESULTS", 3),
			SessionTTL:          time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
			MaxSessionMessages:  getEnvAsInt("MAX_SESSION_MESSAGES", 10),
			EmbedTopicName:      getEnv("EMBED_DOCUMENT_TOPIC_NAME", "EMBED_DOCUMENT"),
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
