// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	APIKey       string
	// InferenceBackend selects the engine implementation: "mock" or "http".
	InferenceBackend string
	InferenceBaseURL string
	InferenceAPIKey  string
	// Connection establishment and full-response deadlines, in seconds.
	InferenceConnectTimeout int
	InferenceReadTimeout    int
	LogLevel                string
	Environment             string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		DatabasePath:            getEnv("DATABASE_PATH", "assistant.db"),
		APIKey:                  getEnv("API_KEY", ""),
		InferenceBackend:        strings.ToLower(getEnv("INFERENCE_BACKEND", "mock")),
		InferenceBaseURL:        getEnv("INFERENCE_BASE_URL", ""),
		InferenceAPIKey:         getEnv("INFERENCE_API_KEY", ""),
		InferenceConnectTimeout: getEnvAsInt("INFERENCE_CONNECT_TIMEOUT", 10),
		InferenceReadTimeout:    getEnvAsInt("INFERENCE_READ_TIMEOUT", 120),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
		Environment:             env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.APIKey == "" {
			missing = append(missing, "API_KEY")
		}
		if cfg.InferenceBackend == "http" {
			if cfg.InferenceBaseURL == "" {
				missing = append(missing, "INFERENCE_BASE_URL")
			}
			if cfg.InferenceAPIKey == "" {
				missing = append(missing, "INFERENCE_API_KEY")
			}
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
