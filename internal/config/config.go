package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Ai      AIConfig
	Media   MediaConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string // empty disables event publishing
	RedisURL           string
	ArtifactDir        string // empty disables artifact export
	ArtifactTopic      string
	SessionBackend     string // "memory" or "redis"
}

type AIConfig struct {
	LLMProvider     string // "openai" or "ollama"
	LLMBaseURL      string
	LLMModel        string
	LLMApiKey       string
	GenerateTimeout time.Duration
	KeywordTimeout  time.Duration
}

type MediaConfig struct {
	PexelsApiKey   string
	YouTubeApiKey  string
	Timeout        time.Duration
	DefaultCount   int
	ResultCacheTTL time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRatio float64 // 1 traces every request
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ArtifactDir:        getEnv("ARTIFACT_DIR", "outputs"),
			ArtifactTopic:      getEnv("ARTIFACT_TOPIC_NAME", "LESSON_ARTIFACTS"),
			SessionBackend:     getEnv("SESSION_BACKEND", "memory"),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
			LLMBaseURL:      getEnv("LLM_BASE_URL", ""),
			LLMModel:        getEnv("LLM_MODEL", "InnoSpark-R"),
			LLMApiKey:       getEnv("LLM_API_KEY", ""),
			GenerateTimeout: getEnvAsDuration("LLM_GENERATE_TIMEOUT", 120*time.Second),
			KeywordTimeout:  getEnvAsDuration("LLM_KEYWORD_TIMEOUT", 15*time.Second),
		},
		Media: MediaConfig{
			PexelsApiKey:   getEnv("PEXELS_API_KEY", ""),
			YouTubeApiKey:  getEnv("YOUTUBE_API_KEY", ""),
			Timeout:        getEnvAsDuration("MEDIA_TIMEOUT", 10*time.Second),
			DefaultCount:   getEnvAsInt("MEDIA_DEFAULT_COUNT", 3),
			ResultCacheTTL: getEnvAsDuration("MEDIA_CACHE_TTL", 10*time.Minute),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "cross-discipline-lesson-agent"),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1),
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

// getEnvAsDuration accepts Go durations ("90s") or bare seconds ("90").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
