package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Worker WorkerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// StoreConfig holds transactions store configuration
type StoreConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// WorkerConfig holds the paths the external worker writes its results to
type WorkerConfig struct {
	LogPath     string
	ItemsPath   string
	MediaDir    string
	DefaultYear int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			DSN:         getEnv("DB_URL", "file:data/monitor.sqlite"),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Worker: WorkerConfig{
			LogPath:     getEnv("LOG_PATH", "data/process-log.jsonl"),
			ItemsPath:   getEnv("ITEMS_PATH", "data/ocr-latest.json"),
			MediaDir:    getEnv("MEDIA_DIR", "data/media"),
			DefaultYear: getEnvAsInt("ITEMS_YEAR", time.Now().Year()),
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Store.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Worker.LogPath == "" {
		return NewAppError("CONFIG_ERROR", "LOG_PATH is required", ErrInvalidInput)
	}
	if c.Worker.DefaultYear < 2000 || c.Worker.DefaultYear > 2100 {
		return NewAppError("CONFIG_ERROR", "ITEMS_YEAR must be a 4-digit year", ErrInvalidInput)
	}
	return nil
}
