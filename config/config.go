package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string // Supabase Postgres connection string
	JWTSecret      string
	AllowedOrigins []string
	BotTypingDelay time.Duration
	CallTimeout    time.Duration // per external call issued by the onboarding machine
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:           get("PORT", "8080"),
		DatabaseURL:    must("DATABASE_URL"),
		JWTSecret:      must("JWT_SECRET"),
		AllowedOrigins: []string{get("ALLOWED_ORIGIN", "*")},
		BotTypingDelay: millis("BOT_TYPING_MS", 1500),
		CallTimeout:    millis("ONBOARDING_CALL_TIMEOUT_MS", 10000),
	}
	return cfg
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func millis(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}
