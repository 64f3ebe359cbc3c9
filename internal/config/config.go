package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration

	JWTSecret      string
	AllowedOrigins string

	PostmarkToken string
	EmailSender   string

	UpstreamURL   string
	UpstreamToken string

	// CancelFromShipped decides whether shipped orders may still be cancelled.
	CancelFromShipped bool
}

// FromEnv builds Config with defaults, overridden by environment variables.
// A .env file in the working directory is honored when present.
func FromEnv() Config {
	_ = godotenv.Load()
	return Config{
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:      os.Getenv("DB_DSN"),
		ShutdownTimeout:   envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		JWTSecret:         envOrDefault("JWT_SECRET", "dev-secret"),
		AllowedOrigins:    envOrDefault("ALLOWED_ORIGINS", "*"),
		PostmarkToken:     os.Getenv("POSTMARK_API_TOKEN"),
		EmailSender:       os.Getenv("EMAIL_SENDER"),
		UpstreamURL:       os.Getenv("UPSTREAM_API_URL"),
		UpstreamToken:     os.Getenv("UPSTREAM_API_TOKEN"),
		CancelFromShipped: envBool("ORDER_CANCEL_FROM_SHIPPED", false),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err == nil {
			return parsed
		}
	}
	return def
}
