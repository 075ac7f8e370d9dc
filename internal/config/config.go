package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	ServerPort      int
	BackendURL      string
	CookieSecret    string
	SecureCookies   bool
	RequestTimeout  time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int // 0 means poll until confirmed
	FlowTTL         time.Duration
	TemplateGlob    string
	LogLevel        string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	cookieSecret := getEnv("COOKIE_SECRET", "")
	if cookieSecret == "" {
		// Generate a random secret if not provided
		cookieSecret = generateRandomSecret(32)
		fmt.Printf("⚠️  WARNING: COOKIE_SECRET not set, generated random secret: %s\n", cookieSecret)
		fmt.Printf("   Please set COOKIE_SECRET environment variable for production use!\n")
	}

	return &Config{
		ServerPort:      getEnvAsInt("SERVER_PORT", 8080),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:4000"),
		CookieSecret:    cookieSecret,
		SecureCookies:   getEnvAsBool("SECURE_COOKIES", false),
		RequestTimeout:  time.Duration(getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		PollInterval:    time.Duration(getEnvAsInt("POLL_INTERVAL_SECONDS", 10)) * time.Second,
		PollMaxAttempts: getEnvAsInt("POLL_MAX_ATTEMPTS", 0),
		FlowTTL:         time.Duration(getEnvAsInt("FLOW_TTL_MINUTES", 30)) * time.Minute,
		TemplateGlob:    getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomSecret generates a cryptographically secure random string
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// Fallback to time-based seed if crypto/rand fails
		return fmt.Sprintf("fallback-secret-%d", time.Now().UnixNano())
	}
	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch value {
		case "1", "t", "T", "true", "TRUE", "True", "yes", "YES":
			return true
		case "0", "f", "F", "false", "FALSE", "False", "no", "NO":
			return false
		}
	}
	return defaultValue
}
