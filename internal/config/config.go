// Package config holds the process configuration as one explicit struct,
// constructed once in main and injected into every component that needs it.
package config

import (
	"os"
	"time"

	"attendly/internal/shared/connection"
)

type Config struct {
	Env  string
	Port string

	DB connection.DBConfig

	RedisAddr string

	JWTSecret string
	TokenTTL  time.Duration

	KafkaBroker string
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "5000"),
		DB: connection.DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "attendly"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:    24 * time.Hour,
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
