package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env                   string
	ServiceName           string
	ServicePort           int
	GinMode               string
	RabbitMQURL           string // empty disables event publishing
	RabbitMQExchange      string
	RabbitMQRoutingKey    string
	RabbitMQMaxRetries    int
	RabbitMQRetryDelay    time.Duration
	PublishConfirmTimeout time.Duration
	ServerStartTimeout    time.Duration
	ServerStopTimeout     time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env:                   os.Getenv("ENV"),
		ServiceName:           getEnv("SERVICE_NAME", "device-fingerprint-api"),
		ServicePort:           getEnvAsInt("SERVICE_PORT", 8080),
		GinMode:               getEnv("GIN_MODE", "debug"),
		RabbitMQURL:           os.Getenv("RABBITMQ_URL"),
		RabbitMQExchange:      getEnv("RABBITMQ_EXCHANGE", "device-fingerprint.events.exchange"),
		RabbitMQRoutingKey:    getEnv("RABBITMQ_ROUTING_KEY", "fingerprint.computed"),
		RabbitMQMaxRetries:    getEnvAsInt("RABBITMQ_MAX_RETRIES", 3),
		RabbitMQRetryDelay:    time.Duration(getEnvAsInt("RABBITMQ_RETRY_BASE_DELAY_MS", 100)) * time.Millisecond,
		PublishConfirmTimeout: time.Duration(getEnvAsInt("PUBLISH_CONFIRM_TIMEOUT_SEC", 5)) * time.Second,
		ServerStartTimeout:    time.Duration(getEnvAsInt("SERVER_START_TIMEOUT_SEC", 15)) * time.Second,
		ServerStopTimeout:     time.Duration(getEnvAsInt("SERVER_STOP_TIMEOUT_SEC", 15)) * time.Second,
	}

	if cfg.ServicePort <= 0 || cfg.ServicePort > 65535 {
		return nil, fmt.Errorf("SERVICE_PORT out of range: %d", cfg.ServicePort)
	}
	if cfg.RabbitMQMaxRetries < 1 {
		return nil, fmt.Errorf("RABBITMQ_MAX_RETRIES must be at least 1")
	}

	return cfg, nil
}

// IsDevelopment reports whether the service runs in a local environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "dev" || c.Env == "development"
}

// PublishingEnabled reports whether a broker is configured
func (c *Config) PublishingEnabled() bool {
	return c.RabbitMQURL != ""
}

// LoadEnvFile loads the first .env file found in the usual locations.
// Variables already set in the environment win.
func LoadEnvFile() string {
	envPaths := []string{
		".env",                            // Current directory
		filepath.Join("..", "..", ".env"), // Project root (from cmd/server)
		"/app/.env",                       // Common Kubernetes/Docker path
	}

	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded .env file from: %s", path)
			return path
		}
	}

	log.Println("No .env file found in any location, using system environment variables")
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
