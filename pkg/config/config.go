package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	FirestoreProject   string
	Environment        string
	ServiceAccountJSON string
	ServiceAccountPath string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FirestoreProject:   getEnv("FIRESTORE_PROJECT_ID", ""),
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountPath: getEnv("GOOGLE_SERVICE_ACCOUNT_PATH", ""),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
