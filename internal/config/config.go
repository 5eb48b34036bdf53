// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"splitledger/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort  string
	DB          db.Config
	JWTSecret   string
	JWTTokenTTL time.Duration
}

// LoadConfig loads configuration from the environment, reading a .env file
// first when one exists. It returns an AppConfig instance or an error if a
// variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPortStr := getEnv("DB_PORT", "5432")
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	jwtTTL := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TOKEN_TTL"); ttlStr != "" {
		jwtTTL, err = time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TOKEN_TTL: %w", err)
		}
	}

	return &AppConfig{
		ServerPort:  serverPort,
		JWTSecret:   jwtSecret,
		JWTTokenTTL: jwtTTL,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "splitledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
