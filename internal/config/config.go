package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	DBPath         string
	AuditRetention time.Duration
	DevLog         bool
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		DBPath:         getEnv("DB_PATH", "fairdice.sqlite"),
		AuditRetention: time.Duration(getEnvInt("AUDIT_RETENTION_HOURS", 24*7)) * time.Hour,
		DevLog:         getEnv("LOG_DEV", "") != "",
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
