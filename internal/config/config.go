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
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

// APIKeys hold env-sourced provider credentials, used as fallback when no
// provider_configs row exists for a provider.
type APIKeys struct {
	OpenRouter string
	OpenAI     string
	Anthropic  string
	Gemini     string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "gemini"
	EmbeddingModel    string
	ModelOverride     string // forces a single candidate model when set
	AgentModel        string // model used by agent executions
	ChunkSize         int
	ChunkOverlap      int
	ReindexTopicName  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenRouter: getEnv("OPENROUTER_API_KEY", ""),
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
			Anthropic:  getEnv("ANTHROPIC_API_KEY", ""),
			Gemini:     getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			ModelOverride:     getEnv("LLM_MODEL_OVERRIDE", ""),
			AgentModel:        getEnv("AGENT_MODEL", "openai/gpt-4o-mini"),
			ChunkSize:         getEnvAsInt("CHUNK_SIZE", 1200),
			ChunkOverlap:      getEnvAsInt("CHUNK_OVERLAP", 200),
			ReindexTopicName:  getEnv("REINDEX_DOCUMENT_TOPIC_NAME", "REINDEX_KNOWLEDGE_DOCUMENT"),
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
