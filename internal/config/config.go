package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// WorkerCount bounds per-locale comparison parallelism.
	WorkerCount int
	// DatabaseURL enables the comparison-history store when non-empty.
	DatabaseURL string
	// SourceEncoding is the declared charset of resource files.
	SourceEncoding string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		WorkerCount:    getEnvInt("WORKER_COUNT", 4),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SourceEncoding: getEnv("SOURCE_ENCODING", "utf-8"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
