package common

import (
	"os"
	"strconv"
	"time"

	"github.com/yachiey/ocr-final/constants"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	LLM        LLMConfig
	Storage    StorageConfig
	Extraction ExtractionConfig
}

// DatabaseConfig holds database-related configuration. An empty DSN means
// the service runs without persistence.
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// LLMConfig holds vision-model configuration
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// StorageConfig holds uploaded-image storage configuration
type StorageConfig struct {
	Dir string
}

// ExtractionConfig holds domain policy knobs for the reconciler.
type ExtractionConfig struct {
	DefaultCurrency string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("GROQ_OCR", ""),
			BaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:       getEnv("GROQ_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),
			Temperature: getEnvAsFloat32("GROQ_TEMPERATURE", 0.1),
			MaxTokens:   getEnvAsInt("GROQ_MAX_TOKENS", 4096),
			Timeout:     getEnvAsDuration("GROQ_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			Dir: getEnv("IMAGE_STORAGE_DIR", "./receipts"),
		},
		Extraction: ExtractionConfig{
			DefaultCurrency: getEnv("DEFAULT_CURRENCY", constants.DefaultCurrency),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. The database is optional;
// extraction itself only needs the vision-API credential.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "GROQ_OCR is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError(CodeConfig, "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
