package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	LLM        LLMConfig
	AssemblyAI AssemblyAIConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int

	AutoMigrate bool
}

// StorageConfig holds object storage configuration for protocol
// exports. Leave Endpoint empty to disable exports.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// LLMConfig holds the chat-completions endpoint configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	CacheTTL    time.Duration
}

// AssemblyAIConfig holds speech-to-text configuration. Optional,
// only needed when transcribing audio URLs.
type AssemblyAIConfig struct {
	APIKey string
}

// PipelineConfig holds tuning knobs for the map-reduce-refine
// pipeline.
type PipelineConfig struct {
	ChunkTokens              int
	OverlapTokens            int
	MaxConcurrentExtractions int
	MaxAttempts              int
	CallTimeout              time.Duration
	DefaultLanguage          string
	TokenEncoding            string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "meeting_minutes"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),

			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meeting-protocols"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("LLM_API_KEY", ""),
			BaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com"),
			Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Temperature: getEnvAsFloat("LLM_TEMPERATURE", 0.2),
			CacheTTL:    getEnvAsDuration("LLM_CACHE_TTL", "24h"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey: getEnv("ASSEMBLYAI_API_KEY", ""),
		},
		Pipeline: PipelineConfig{
			ChunkTokens:              getEnvAsInt("PIPELINE_CHUNK_TOKENS", 3000),
			OverlapTokens:            getEnvAsInt("PIPELINE_OVERLAP_TOKENS", 200),
			MaxConcurrentExtractions: getEnvAsInt("PIPELINE_MAX_CONCURRENT", 4),
			MaxAttempts:              getEnvAsInt("PIPELINE_MAX_ATTEMPTS", 3),
			CallTimeout:              getEnvAsDuration("PIPELINE_CALL_TIMEOUT", "120s"),
			DefaultLanguage:          getEnv("PIPELINE_DEFAULT_LANGUAGE", "en"),
			TokenEncoding:            getEnv("PIPELINE_TOKEN_ENCODING", "cl100k_base"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Pipeline.ChunkTokens <= 0 {
		return fmt.Errorf("PIPELINE_CHUNK_TOKENS must be positive")
	}
	if c.Pipeline.OverlapTokens < 0 {
		return fmt.Errorf("PIPELINE_OVERLAP_TOKENS must not be negative")
	}
	if c.Pipeline.MaxConcurrentExtractions < 1 {
		return fmt.Errorf("PIPELINE_MAX_CONCURRENT must be at least 1")
	}
	if c.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("PIPELINE_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
