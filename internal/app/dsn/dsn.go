package dsn

import (
	"fmt"
	"os"
)

// FromEnv builds the postgres DSN from DB_* variables. DB_DSN, when set, wins.
// It returns "" when no database host is configured.
func FromEnv() string {
	if raw := os.Getenv("DB_DSN"); raw != "" {
		return raw
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASS"),
		getEnv("DB_NAME", "resourceshop"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
