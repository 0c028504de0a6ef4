package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed by reference into every component that needs it.
type Config struct {
	LLM        LLMConfig
	PostgreSQL PostgreSQLConfig
	Generation GenerationConfig
	Retrieval  RetrievalConfig
	Server     ServerConfig
	Logging    LoggingConfig
	UI         UIConfig
}

// LLMConfig holds settings for the OpenAI-compatible language model API.
type LLMConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string
	ChatTemperature     float64
	ChatMaxTokens       int
	EmbeddingModel      string
	EmbeddingDimensions int
	BatchSize           int
	Timeout             int // seconds
}

// PostgreSQLConfig holds the pgvector-backed index database configuration.
type PostgreSQLConfig struct {
	DSN                string // full connection string, takes priority
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// GenerationConfig controls synthetic listing generation.
type GenerationConfig struct {
	Count        int
	MaxRetries   int
	Pause        time.Duration
	ListingsPath string
}

// RetrievalConfig controls similarity search.
type RetrievalConfig struct {
	TopK int
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// UIConfig carries the static option lists served to frontends.
type UIConfig struct {
	PageTitle          string
	Amenities          []string
	Transportation     []string
	NeighborhoodTraits []string
}

// Load reads configuration from environment variables. The LLM API key is
// required; a missing or empty value is a startup failure.
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		LLM: LLMConfig{
			APIKey:              getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
			APIBase:             getEnv("LLM_API_BASE", "https://api.groq.com/openai/v1"),
			ChatModel:           getEnv("LLM_CHAT_MODEL", "gemma2-9b-it"),
			ChatTemperature:     getEnvAsFloat("LLM_CHAT_TEMPERATURE", 0.8),
			ChatMaxTokens:       getEnvAsInt("LLM_CHAT_MAX_TOKENS", 512),
			EmbeddingModel:      getEnv("LLM_EMBEDDING_MODEL", "baai/bge-base-en-v1.5"),
			EmbeddingDimensions: getEnvAsInt("LLM_EMBEDDING_DIMENSIONS", 768),
			BatchSize:           getEnvAsInt("LLM_BATCH_SIZE", 50),
			Timeout:             getEnvAsInt("LLM_TIMEOUT", 30),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("PG_DSN", "")),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               getEnvAsInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "homematch"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
		},
		Generation: GenerationConfig{
			Count:        getEnvAsInt("GENERATION_COUNT", 20),
			MaxRetries:   getEnvAsInt("GENERATION_MAX_RETRIES", 2),
			Pause:        getEnvAsDuration("GENERATION_PAUSE", 300*time.Millisecond),
			ListingsPath: getEnv("LISTINGS_PATH", "./data/listings.json"),
		},
		Retrieval: RetrievalConfig{
			TopK: getEnvAsInt("RETRIEVAL_TOP_K", 5),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		UI: UIConfig{
			PageTitle:          getEnv("UI_PAGE_TITLE", "HomeMatch"),
			Amenities:          getEnvAsList("UI_AMENITIES", "backyard, solar panels, garage, fireplace, swimming pool, modern kitchen"),
			Transportation:     getEnvAsList("UI_TRANSPORTATION", "public transit, bike paths, highway access, walkable"),
			NeighborhoodTraits: getEnvAsList("UI_NEIGHBORHOOD_TRAITS", "quiet, family-friendly, green spaces, good schools, nightlife"),
		},
	}

	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required but not set")
	}

	return cfg, nil
}

// GetPostgreSQLDSN returns the PostgreSQL connection string.
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration value for %s, using default %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
