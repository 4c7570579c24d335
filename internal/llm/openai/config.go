package openai

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds OpenAI-compatible chat model settings.
type Config struct {
	APIKey      string        // LLM_API_KEY, falling back to OPENAI_API_KEY
	BaseURL     string        // LLM_BASE_URL (default https://api.openai.com/v1)
	Model       string        // LLM_MODEL (default gpt-4o-mini)
	Temperature *float32      // LLM_TEMPERATURE, nil = API default; 0 is sent as the smallest positive float32
	MaxTokens   int           // LLM_MAX_TOKENS, 0 = no limit
	MaxRetries  int           // LLM_MAX_RETRIES, retries after the first attempt (default 2)
	RetryDelay  time.Duration // initial backoff between attempts
	MaxDelay    time.Duration // backoff ceiling
}

// DefaultModel is used when LLM_MODEL is unset.
const DefaultModel = "gpt-4o-mini"

// NewConfigFromEnv reads Config from the environment and validates it.
func NewConfigFromEnv() (*Config, error) {
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	config := &Config{
		APIKey:      apiKey,
		BaseURL:     getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnvOrDefault("LLM_MODEL", DefaultModel),
		Temperature: getEnvFloat32Ptr("LLM_TEMPERATURE"),
		MaxTokens:   getEnvIntOrDefault("LLM_MAX_TOKENS", 0),
		MaxRetries:  getEnvIntOrDefault("LLM_MAX_RETRIES", 2),
		RetryDelay:  500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY (or OPENAI_API_KEY) is required. Set it in .env or environment")
	}
	if c.Model == "" {
		return fmt.Errorf("LLM_MODEL cannot be empty")
	}
	if c.Temperature != nil && (*c.Temperature < 0.0 || *c.Temperature > 2.0) {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0.0 and 2.0, got %f", *c.Temperature)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("LLM_MAX_TOKENS cannot be negative, got %d", c.MaxTokens)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvFloat32Ptr(key string) *float32 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			f := float32(parsed)
			return &f
		}
	}
	return nil
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
