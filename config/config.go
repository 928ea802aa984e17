package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	JWTSecret   string
	ServerPort  string
	UploadsDir  string
	BackupDir   string
	LogFile     string
	Environment string
}

// Load reads configuration from the environment (plus an optional .env file).
func Load() *Config {
	// .env file is optional, continue without it
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: databaseURL(),
		JWTSecret:   getEnv("JWT_SECRET", "change-this-secret-in-production"),
		ServerPort:  getEnv("PORT", "8080"),
		UploadsDir:  getEnv("UPLOADS_DIR", "./uploads"),
		BackupDir:   getEnv("BACKUP_DIR", "./backup/uploads"),
		LogFile:     getEnv("LOG_FILE", "./logs/bookstore.log"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to discrete DB_* vars.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "bookstore")
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
