package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string
	Debug      bool

	// Gemini configuration
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
	MaxRetries     int

	// CORS configuration
	AllowedOrigins []string

	// Upload configuration
	MaxFileSizeMB    int
	AllowedFileTypes []string

	// Rate limit configuration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Redis configuration (optional, for multi-instance rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string
}

// LoadConfig creates a new Config instance with values from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost: getEnv("HOST", "0.0.0.0"),
		ServerPort: getEnv("PORT", "8000"),
		Debug:      getEnvBool("DEBUG", false),

		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT", 30)) * time.Second,
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		MaxFileSizeMB:    getEnvInt("MAX_FILE_SIZE_MB", 10),
		AllowedFileTypes: splitAndTrim(getEnv("ALLOWED_FILE_TYPES", "image/jpeg,image/jpg,image/png,image/webp")),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   time.Duration(getEnvInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisURL:      os.Getenv("REDIS_URL"),
	}

	// Fall back to a secret file for the API key (Docker secrets style)
	if cfg.GeminiAPIKey == "" {
		if keyFile := os.Getenv("GEMINI_API_KEY_FILE"); keyFile != "" {
			data, err := os.ReadFile(keyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read API key file: %w", err)
			}
			cfg.GeminiAPIKey = strings.TrimSpace(string(data))
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// RedisConfigured reports whether any Redis connection details were supplied.
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// IsAllowedFileType checks the declared content type against the allow-list.
func (c *Config) IsAllowedFileType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, allowed := range c.AllowedFileTypes {
		if contentType == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
