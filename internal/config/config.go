package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort       string
	LlamaAPIKey    string
	LlamaAPIURL    string
	LlamaModel     string
	LLMTimeout     time.Duration
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8000")

	apiKey := getEnv("LLAMA_API_KEY", "")
	if apiKey == "" {
		log.Println("Warning: LLAMA_API_KEY is not set; every model call will degrade to the fallback response.")
	}
	apiURL := getEnv("LLAMA_API_URL", "")
	model := getEnv("LLAMA_MODEL", "")

	timeoutStr := getEnv("LLM_TIMEOUT_SECONDS", "60")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		log.Printf("Warning: Invalid LLM_TIMEOUT_SECONDS '%s', using default 60s.", timeoutStr)
		timeoutSecs = 60
	}

	originsStr := getEnv("ALLOWED_ORIGINS", "*")
	origins := strings.Split(originsStr, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := &Config{
		HTTPPort:       port,
		LlamaAPIKey:    apiKey,
		LlamaAPIURL:    apiURL,
		LlamaModel:     model,
		LLMTimeout:     time.Duration(timeoutSecs) * time.Second,
		AllowedOrigins: origins,
	}

	log.Printf("Loaded config: Port=%s, APIKey=***, Model=%s, LLMTimeout=%s, AllowedOrigins=%v",
		cfg.HTTPPort, cfg.LlamaModel, cfg.LLMTimeout, cfg.AllowedOrigins)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
