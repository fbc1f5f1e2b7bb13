package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration, loaded once at startup.
// Threshold configuration is deliberately not here: it lives for the process
// lifetime only and is settable at runtime through the API.
type Config struct {
	MongoURI       string
	DatabaseName   string
	CollectionName string
	Port           string
	RedisAddr      string
	WebhookURL     string
	JWTSecretKey   string

	RetentionDays       int
	CollectionInterval  time.Duration
	MaintenanceInterval time.Duration
}

// LoadConfig loads the configuration from environment variables, with a
// .env file as the development-time source.
func LoadConfig() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		MongoURI:            os.Getenv("MONGODB_URI"),
		DatabaseName:        envOrDefault("MONGODB_DATABASE", "monitoringDB"),
		CollectionName:      envOrDefault("MONGODB_COLLECTION", "serverRoomLogs"),
		Port:                envOrDefault("PORT", "8081"),
		RedisAddr:           envOrDefault("REDIS_ADDR", "localhost:6379"),
		WebhookURL:          os.Getenv("ALERT_WEBHOOK_URL"),
		JWTSecretKey:        os.Getenv("JWT_SECRET_KEY"),
		RetentionDays:       envIntOrDefault("RETENTION_DAYS", 30),
		CollectionInterval:  envDurationOrDefault("COLLECTION_INTERVAL", 60*time.Second),
		MaintenanceInterval: envDurationOrDefault("MAINTENANCE_INTERVAL", 24*time.Hour),
	}

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MongoDB configuration is incomplete. Please set the MONGODB_URI environment variable")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid value for %s (%q), using default %s", key, v, fallback)
		return fallback
	}
	return d
}
