package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName   string
	AppEnv    string
	Port      string
	CoachName string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Coaching engine
	CheckInHour      int           // hour of day the daily check-in becomes due
	PlanHorizonWeeks int           // how many weeks of runs a new schedule generates
	AdaptWindow      int           // number of recent sessions classified by Adapt
	AdaptThreshold   float64       // majority fraction needed to trigger an adjustment
	AdaptDecrease    float64       // distance reduction when runs are too hard
	AdaptIncrease    float64       // distance increase when runs are too easy
	SessionIdleLimit time.Duration // cap on the recorded duration of an auto-closed stale conversation

	// Notifications
	EmailFrom    string
	ResendAPIKey string
	UserEmail    string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName:   envString("APP_NAME", "Stride"),
		AppEnv:    envRequired("APP_ENV"), // 'development' or 'production'
		Port:      envString("PORT", "8090"),
		CoachName: envString("COACH_NAME", "Coach"),

		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/stride.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		CheckInHour:      envInt("CHECKIN_HOUR", 20), // 8 PM, matches the default reminder
		PlanHorizonWeeks: envInt("PLAN_HORIZON_WEEKS", 4),
		AdaptWindow:      envInt("ADAPT_WINDOW", 3),
		AdaptThreshold:   envFloat("ADAPT_THRESHOLD", 0.5),
		AdaptDecrease:    envFloat("ADAPT_DECREASE", 0.15),
		AdaptIncrease:    envFloat("ADAPT_INCREASE", 0.10),
		SessionIdleLimit: envDuration("SESSION_IDLE_LIMIT", 2*time.Hour),

		EmailFrom:    envString("EMAIL_FROM", "coach@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		UserEmail:    envString("USER_EMAIL", ""),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures notification delivery is configured for
// production deployments. Development falls back to log-only mode.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with notification log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("config invalid float, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
