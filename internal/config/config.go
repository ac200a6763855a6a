package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all environment configuration values for the application.
// These values are loaded from a .env file at startup.
type Config struct {
	// ServerPort is the port the HTTP server listens on
	ServerPort string

	// Env selects logger behavior: "development" or "production"
	Env string

	// DataDir is where the document store keeps its files
	DataDir string

	// UploadDir is where uploaded files are written
	UploadDir string

	// CorsOrigins is the list of allowed browser origins
	CorsOrigins []string

	// ExpoPushURL overrides the Expo push endpoint (empty = public API)
	ExpoPushURL string

	// RateLimitRPS / RateLimitBurst bound per-IP request rates on the REST surface
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads environment variables and returns a populated Config struct.
// It will load from a .env file if present, then read from environment
// variables. Falls back to sensible defaults if values are not set.
func Load() *Config {
	// Not an error if the .env file doesn't exist; production runs with
	// real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		Env:            getEnv("APP_ENV", "development"),
		DataDir:        getEnv("DATA_DIR", "data"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		CorsOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:19006", "http://localhost:3000"}),
		ExpoPushURL:    getEnv("EXPO_PUSH_URL", ""),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("WARNING: invalid integer for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("WARNING: invalid number for %s, using default %v", key, defaultValue)
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
