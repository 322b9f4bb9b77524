// File: internal/services/inference/config.go
package inference

import (
	"fmt"
	"time"
)

type Config struct {
	// Backend configuration
	BaseURL string
	APIKey  string

	// Generation latency is large and variable, so connection establishment
	// and response read get independent bounds.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// Default generation parameters
	MaxTokens   int
	Temperature float32
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("INFERENCE_BASE_URL is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    120 * time.Second,
		MaxTokens:      1000,
		Temperature:    0.7,
	}
}
