package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Settings is the process-wide configuration, populated from the environment
// at startup. A .env file is honored when present.
type Settings struct {
	AppName     string
	Environment string
	Debug       bool
	Port        string

	// DatabaseDriver selects the gateway: "sqlite3" or "postgres".
	DatabaseDriver string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// TaskProfile selects the task resource variant: "classic" or "extended".
	TaskProfile string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	EnforceHTTPS bool

	MetricsPort  string
	OTLPEndpoint string
}

func LoadSettings() *Settings {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	return &Settings{
		AppName:           getEnv("APP_NAME", "taskapi"),
		Environment:       getEnv("APP_ENV", "development"),
		Debug:             getBoolEnv("DEBUG", false),
		Port:              getEnv("PORT", "8080"),
		DatabaseDriver:    getEnv("DATABASE_DRIVER", "sqlite3"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabasePath:      getEnv("DATABASE_PATH", "tasks.db"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "db/migrations"),
		TaskProfile:       getEnv("TASK_PROFILE", "classic"),
		RateLimitEnabled:  getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		EnforceHTTPS:      getBoolEnv("ENFORCE_HTTPS", false) || os.Getenv("GIN_MODE") == "release",
		MetricsPort:       getEnv("METRICS_PORT", "9091"),
		OTLPEndpoint:      getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(value)

	if err != nil {
		return fallback
	}

	return parsed
}

func getIntEnv(key string, fallback int) int {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)

	if err != nil {
		return fallback
	}

	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)

	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)

	if err != nil {
		return fallback
	}

	return parsed
}
