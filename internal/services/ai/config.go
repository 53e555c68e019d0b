// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// Gateway credentials and endpoint
	APIKey  string
	BaseURL string

	// Default models. IntentModel runs the small classification pass and may
	// be cheaper than the answer model.
	Model       string
	IntentModel string

	// Performance
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Generation parameters
	Temperature float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("LLM_MODEL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-4o-mini",
		IntentModel: "gpt-4o-mini",
		Timeout:     60 * time.Second,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}
