package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string

	// StrictFinalize: when true, finalizing an already-COMPLETED session is
	// rejected with a conflict. Default keeps the idempotent behaviour where
	// re-finalizing just refreshes the completion timestamp.
	StrictFinalize bool
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "local.db"),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		StrictFinalize: getEnv("STRICT_FINALIZE", "false") == "true",
	}

	if cfg.DatabaseDSN == "local.db" {
		log.Println("[WARN] DATABASE_DSN not set, using embedded SQLite database ./local.db")
	}
	if cfg.CORSOrigins == "http://localhost:3000" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS not set, allowing the local dev frontend only")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
