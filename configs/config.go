package config

import (
	"log"
	"os"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port                 string
	Environment          string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiEmbeddingModel string
	GeminiBaseURL        string
	GeminiTimeout        time.Duration
	DatabasePath         string
	QdrantURL            string
	QdrantAPIKey         string
	APIKey               string
	AdminUsername        string
	AdminPassword        string
	PipelineStepDelay    time.Duration
	DietAdjustMode       string
	PromptsPath          string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiEmbeddingModel: getEnv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:        getEnvDuration("GEMINI_TIMEOUT", 30*time.Second),
		DatabasePath:         getEnv("DATABASE_PATH", "workoutvibes.db"),
		QdrantURL:            getEnv("QDRANT_URL", ""),
		QdrantAPIKey:         getEnv("QDRANT_API_KEY", ""),
		APIKey:               getEnv("API_KEY", "default_secret_key"),
		AdminUsername:        getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
		PipelineStepDelay:    getEnvDuration("PIPELINE_STEP_DELAY", 0),
		DietAdjustMode:       getEnv("DIET_ADJUST_MODE", "reset"),
		PromptsPath:          getEnv("PROMPTS_PATH", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration は "500ms" や "2s" の形式の値を読み込みます。解釈できない値は既定値に戻します。
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("⚠️ 環境変数 %s の値 %q を解釈できないため既定値 %v を使用します", key, value, defaultValue)
		return defaultValue
	}
	return d
}
