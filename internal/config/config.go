package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries all process configuration, sourced from the
// environment. A .env file in the working directory is loaded first
// when present.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Generation service
	LLMProvider   string // "ollama" or "openai"
	OllamaURL     string
	ModelName     string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Image service
	ComfyUIAddress string
	ImageModel     string
	StaticDir      string

	// Session store
	RedisURL string

	// Game rules
	MaxScenes         int
	StartingHP        int
	InventoryCapacity int
	ContentRating     string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
		OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
		ModelName:     getEnv("MODEL_NAME", "llama3.1:8b"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		ComfyUIAddress: getEnv("COMFYUI_ADDRESS", ""),
		ImageModel:     getEnv("IMAGE_MODEL", "playground-v2.5-1024px-aesthetic.fp16.safetensors"),
		StaticDir:      getEnv("STATIC_DIR", "./static"),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		MaxScenes:         getEnvInt("MAX_SCENES", 10),
		StartingHP:        getEnvInt("STARTING_HP", 20),
		InventoryCapacity: getEnvInt("INVENTORY_CAPACITY", 10),
		ContentRating:     getEnv("CONTENT_RATING", "PG-13"),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
