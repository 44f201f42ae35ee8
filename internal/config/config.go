// Package config loads process configuration from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider identifies an embedding or completion backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// SearchBackend identifies where document similarity search runs.
type SearchBackend string

const (
	// SearchSupabase calls the managed match_documents RPC over HTTP.
	SearchSupabase SearchBackend = "supabase"

	// SearchSurrealDB queries a self-hosted SurrealDB document store.
	SearchSurrealDB SearchBackend = "surrealdb"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port        string
	CORSOrigins []string

	// Embedding
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int

	// Completion
	LLMProvider    Provider
	LLMModel       string
	LLMTemperature float64

	// Provider credentials
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	BedrockModelID  string

	// Document search
	SearchProvider SearchBackend
	MatchThreshold float64
	MatchCount     int

	// Supabase RPC backend
	SupabaseURL string
	SupabaseKey string

	// SurrealDB backend
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string

	// Contact form relay
	ResendAPIKey string
	ContactEmail string

	// UpstreamTimeout bounds each upstream call (embed, search, completion).
	// Zero means no deadline; the user's cancellation is then the only way
	// out of a hung upstream call.
	UpstreamTimeout time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		EmbedProvider:  Provider(getEnv("EMBED_PROVIDER", "openai")),
		EmbedModel:     getEnv("EMBED_MODEL", "text-embedding-ada-002"),
		EmbedDimension: getEnvInt("EMBED_DIMENSION", 1536),

		LLMProvider:    Provider(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.7),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),

		SearchProvider: SearchBackend(getEnv("SEARCH_PROVIDER", "supabase")),
		MatchThreshold: getEnvFloat("MATCH_THRESHOLD", 0.7),
		MatchCount:     getEnvInt("MATCH_COUNT", 5),

		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "portfolio"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "site"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		ContactEmail: getEnv("CONTACT_EMAIL", "aayushid81@gmail.com"),

		UpstreamTimeout: getEnvDuration("CHAT_UPSTREAM_TIMEOUT", 0),

		LogFile:  getEnv("PORTFOLIO_LOG_FILE", "/tmp/portfolio-server.log"),
		LogLevel: parseLogLevel(getEnv("PORTFOLIO_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
