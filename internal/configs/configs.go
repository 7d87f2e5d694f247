package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppURL                  string
	DatabaseDSN             string
	RedisAddr               string
	CalendarCacheTTLSeconds int
	RateLimit               int
	ShutdownTimeoutSeconds  int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                  fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:             getEnv("DATABASE_DSN", "staff-planner.db"),
		RedisAddr:               fmt.Sprintf("%s:%s", redisHost, redisPort),
		CalendarCacheTTLSeconds: getEnvAsInt("CALENDAR_CACHE_TTL_SECONDS", 60),
		RateLimit:               getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeoutSeconds:  getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal().Msg("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal().Msg("DATABASE_DSN must not be empty")
	}
	if cfg.CalendarCacheTTLSeconds <= 0 {
		log.Fatal().Msg("CALENDAR_CACHE_TTL_SECONDS must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal().Msg("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal().Str("key", key).Msg("invalid integer value")
		}
		return i
	}
	return defaultVal
}
