// Package config loads FreelancePay settings: the server from the
// environment (optionally seeded by a .env file), the CLI from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	RevocationMemory = "memory"
	RevocationRedis  = "redis"

	devJWTSecret = "freelancepay-dev-secret-change-me"
)

// Server is the API server configuration.
type Server struct {
	Port        int
	DBDriver    string
	DBPath      string
	DatabaseURL string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieSecure bool
	CORSOrigin   string

	RevocationBackend string
	RedisAddr         string
	RedisPass         string
	RedisDBNum        int

	SNSTopicARN string
	SNSEndpoint string
}

// Addr is the listen address.
func (s Server) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// LoadServer reads ENV_FILE (default .env) if present, then the environment.
func LoadServer() (Server, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("No env file loaded", "path", envFile)
	}

	cfg := Server{
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:            getEnv("DB_PATH", "./data/freelance.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		RevocationBackend: strings.ToLower(getEnv("REVOCATION_BACKEND", RevocationMemory)),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASS"),
		SNSTopicARN:       os.Getenv("SNS_TOPIC_ARN"),
		SNSEndpoint:       os.Getenv("SNS_ENDPOINT"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "5000")); err != nil {
		return Server{}, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return Server{}, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Server{}, fmt.Errorf("invalid TOKEN_TTL: must be positive")
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		return Server{}, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	if cfg.RedisDBNum, err = strconv.Atoi(getEnv("REDIS_DB_NUM", "0")); err != nil {
		return Server{}, fmt.Errorf("invalid REDIS_DB_NUM: %w", err)
	}

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Server{}, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=postgres")
		}
	default:
		return Server{}, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}

	switch cfg.RevocationBackend {
	case RevocationMemory, RevocationRedis:
	default:
		return Server{}, fmt.Errorf("unknown REVOCATION_BACKEND %q", cfg.RevocationBackend)
	}

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
