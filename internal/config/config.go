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
	Auth      AuthConfig
	LLM       LLMConfig
	Session   SessionConfig
	Cache     CacheConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type LLMConfig struct {
	APIKey  string
	BaseURL string // OpenAI-compatible base URL, or a full Azure deployment URL

	ChatModel       string
	ChatTemperature float64
	ChatMaxTokens   int
	ChatTimeout     time.Duration

	ExtractionModel   string
	ExtractionTimeout time.Duration

	// PromptTemplate replaces the built-in system prompt when set. It should contain "<PersonalInfo>".
	PromptTemplate string
}

type SessionConfig struct {
	ActiveWindow time.Duration // sessions idle longer than this are not continued
}

type CacheConfig struct {
	Driver     string // "memory" or "redis"
	RedisURL   string
	ProfileTTL time.Duration
}

type EventsConfig struct {
	Topic   string
	NatsURL string
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		LLM: LLMConfig{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			BaseURL:           getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			ChatModel:         getEnv("CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:   getEnvAsFloat("CHAT_TEMPERATURE", 0),
			ChatMaxTokens:     getEnvAsInt("CHAT_MAX_TOKENS", 300),
			ChatTimeout:       getEnvAsDuration("CHAT_TIMEOUT", 60*time.Second),
			ExtractionModel:   getEnv("EXTRACTION_MODEL", "gpt-3.5-turbo"),
			ExtractionTimeout: getEnvAsDuration("EXTRACTION_TIMEOUT", 60*time.Second),
			PromptTemplate:    getEnv("SYSTEM_PROMPT_TEMPLATE", ""),
		},
		Session: SessionConfig{
			ActiveWindow: getEnvAsDuration("ACTIVE_SESSION_WINDOW", 24*time.Hour),
		},
		Cache: CacheConfig{
			Driver:     getEnv("PROFILE_CACHE", "memory"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			ProfileTTL: getEnvAsDuration("PROFILE_CACHE_TTL", 10*time.Minute),
		},
		Events: EventsConfig{
			Topic:   getEnv("EVENTS_TOPIC", "chat.events"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnv("OTEL_ENABLED", "false") == "true",
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "chatbot-backend"),
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

// getEnvAsDuration accepts Go duration strings ("90s", "24h").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
