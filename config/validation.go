package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.GeminiAPIKey == "" {
		errors = append(errors, "GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")
	}
	if cfg.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL must not be empty")
	}
	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errors = append(errors, fmt.Sprintf("PORT must be numeric, got %q", cfg.ServerPort))
	}
	if cfg.MaxFileSizeMB <= 0 {
		errors = append(errors, "MAX_FILE_SIZE_MB must be positive")
	}
	if len(cfg.AllowedFileTypes) == 0 {
		errors = append(errors, "ALLOWED_FILE_TYPES must list at least one content type")
	}
	if cfg.MaxRetries <= 0 {
		errors = append(errors, "MAX_RETRIES must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, "RATE_LIMIT_REQUESTS must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, "RATE_LIMIT_WINDOW must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
