package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port string

	// Auth
	JWTSecret   string
	AdminAPIKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL()),
		Port:        getEnv("API_PORT", "8080"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
	}

	if config.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET not set, using insecure default")
		config.JWTSecret = "dev-secret"
	}
	if config.AdminAPIKey == "" {
		log.Println("WARNING: ADMIN_API_KEY not set, admin endpoints disabled")
	}

	return config
}

func defaultDatabaseURL() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "railway")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
