package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Remote assistant (OpenAI Assistants v2)
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	AssistantID      string
	AssistantTimeout time.Duration
	RunPollInterval  time.Duration
	RunPollAttempts  int

	// Google Calendar booking
	GoogleCredentialsPath string
	CalendarID            string

	// Knowledge base fragments, merged in order
	KnowledgePaths []string

	// Chat widget static assets
	StaticDir string

	// Append-only stores
	DataDir   string
	LeadsPath string
	EventLog  string

	// Transcript store
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE", "https://api.openai.com/v1"),
		AssistantID:      getEnv("ASSISTANT_ID", ""),
		AssistantTimeout: getEnvAsDuration("ASSISTANT_TIMEOUT", 30*time.Second),
		RunPollInterval:  getEnvAsDuration("RUN_POLL_INTERVAL", 400*time.Millisecond),
		RunPollAttempts:  getEnvAsInt("RUN_POLL_ATTEMPTS", 15),

		GoogleCredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		CalendarID:            getEnv("CALENDAR_ID", ""),

		KnowledgePaths: getEnvAsList("KNOWLEDGE_PATHS", []string{
			dataDir + "/kb.json",
			dataDir + "/pricing.json",
		}),

		StaticDir: getEnv("STATIC_DIR", "frontend"),

		DataDir:   dataDir,
		LeadsPath: getEnv("LEADS_PATH", dataDir+"/leads.jsonl"),
		EventLog:  getEnv("EVENT_LOG_PATH", dataDir+"/logs.jsonl"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
