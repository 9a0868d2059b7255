package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"career-compass-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Uploads  UploadConfig
	Quota    QuotaConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	TitleTopicName     string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	Provider      string // "ollama"
	Model         string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
}

type UploadConfig struct {
	BaseDir string
}

type QuotaConfig struct {
	SweepInterval       time.Duration
	SessionMessageLimit int
	DailyTokenBudget    int
	Cooldown            time.Duration
	DailyPdfUploads     int
	DailyImageUploads   int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			TitleTopicName:     getEnv("REFINE_TITLE_TOPIC_NAME", "REFINE_SESSION_TITLE"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "ollama"),
			Model:         getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Uploads: UploadConfig{
			BaseDir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		Quota: QuotaConfig{
			SweepInterval:       getEnvAsDuration("COOLDOWN_SWEEP_INTERVAL", 30*time.Second),
			SessionMessageLimit: getEnvAsInt("SESSION_MESSAGE_LIMIT", constant.SessionMessageLimit),
			DailyTokenBudget:    getEnvAsInt("DAILY_TOKEN_BUDGET", constant.DailyTokenBudget),
			Cooldown:            getEnvAsDuration("QUOTA_COOLDOWN", constant.CooldownDuration),
			DailyPdfUploads:     getEnvAsInt("DAILY_PDF_UPLOAD_LIMIT", constant.DailyPdfUploadLimit),
			DailyImageUploads:   getEnvAsInt("DAILY_IMAGE_UPLOAD_LIMIT", constant.DailyImageUploadLimit),
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
