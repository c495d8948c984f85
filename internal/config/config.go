package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL     string
	SessionDB   string
	HTTPTimeout time.Duration
}

// Load reads .env when present and falls back to process environment,
// then to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	timeout, err := time.ParseDuration(getEnv("MALL_HTTP_TIMEOUT", "10s"))
	if err != nil {
		log.Printf("invalid MALL_HTTP_TIMEOUT, using 10s: %v", err)
		timeout = 10 * time.Second
	}

	return &Config{
		BaseURL:     getEnv("MALL_API_BASE_URL", "http://localhost:8081"),
		SessionDB:   getEnv("MALL_SESSION_DB", "session.db"),
		HTTPTimeout: timeout,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
