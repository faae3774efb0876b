package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string
	TablePrefix string

	// Store selects the persistence backend: "postgres" or "memory"
	Store       string
	DatabaseURL string

	// Storage selects the blob backend: "supabase" or "local"
	Storage         string
	StorageBucket   string
	LocalStorageDir string
	PublicBaseURL   string
	SupabaseURL     string
	SupabaseKey     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json

	// Operator authentication
	AdminPasswordHash string
	SessionSecret     string
	SessionTTL        time.Duration
	OperatorEmails    []string // Supabase users admitted as operators; empty admits any

	// EnforceUniqueVotes adds UNIQUE(screen_id, voter_name) to the votes table
	EnforceUniqueVotes bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     RateLimitConfig

	RabbitMQURL string
	EventsQueue string

	// ReviewerCookieSecure marks the reviewer name cookie Secure
	ReviewerCookieSecure bool

	LogDir      string
	LogMaxFiles int
}

// RateLimitConfig controls the token bucket guarding public review routes
type RateLimitConfig struct {
	Enabled        bool
	Prefix         string
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		Store:       getEnv("STORE", "postgres"),
		DatabaseURL: getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),

		Storage:         getEnv("STORAGE_BACKEND", defaultStorage(supabaseURL)),
		StorageBucket:   getEnv("STORAGE_BUCKET", "mockups"),
		LocalStorageDir: getEnv("LOCAL_STORAGE_DIR", "./data/mockups"),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		SupabaseURL:     supabaseURL,
		SupabaseKey:     getEnv("SUPABASE_KEY", ""),
		SupabaseJWKSURL: jwksURL,

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        getEnvDuration("SESSION_TTL", 12*time.Hour),
		OperatorEmails:    getEnvList("OPERATOR_EMAILS"),

		EnforceUniqueVotes: getEnvBool("ENFORCE_UNIQUE_VOTES", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "mockreview:rl"),
			Capacity:       getEnvInt("RATE_LIMIT_CAPACITY", 60),
			RefillTokens:   getEnvInt("RATE_LIMIT_REFILL_TOKENS", 1),
			RefillInterval: getEnvDuration("RATE_LIMIT_REFILL_INTERVAL", time.Second),
			TTL:            getEnvDuration("RATE_LIMIT_TTL", 10*time.Minute),
		},

		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		EventsQueue:          getEnv("EVENTS_QUEUE", "review.activity"),
		ReviewerCookieSecure: getEnvBool("REVIEWER_COOKIE_SECURE", env == "prod"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
	}
}

// defaultStorage picks Supabase Storage when a project URL is configured
func defaultStorage(supabaseURL string) string {
	if supabaseURL != "" {
		return "supabase"
	}
	return "local"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}
