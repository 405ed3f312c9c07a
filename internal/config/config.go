package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string

	// DBDSN is optional: when empty the service runs on the in-memory
	// stores (useful for local development and demos; state is lost on
	// restart).
	DBDSN string

	// OpsJWTSecret signs tokens for the catalog administration surface.
	OpsJWTSecret string
	OpsTokenTTL  time.Duration

	// Hold lifetimes. Requests may ask for a shorter hold, never a longer
	// one than HoldTTLMax.
	HoldTTLDefault time.Duration
	HoldTTLMax     time.Duration

	// SweepInterval controls how often expired holds are reclaimed and
	// departed trips are marked. Safety does not depend on it, only
	// reclaim latency.
	SweepInterval time.Duration

	// StoragePath is the base directory for trip gallery files.
	StoragePath string

	// Rate limiting for reservation writes, per client address.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origins (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN; empty selects the in-memory stores.
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" && cfg.IsProduction {
		return nil, fmt.Errorf("DB_DSN is required in production")
	}

	// Ops JWT secret is required for the admin routes.
	cfg.OpsJWTSecret = os.Getenv("OPS_JWT_SECRET")
	if cfg.OpsJWTSecret == "" {
		return nil, fmt.Errorf("OPS_JWT_SECRET is required")
	}

	var err error
	if cfg.OpsTokenTTL, err = getEnvAsDuration("OPS_TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.HoldTTLDefault, err = getEnvAsDuration("HOLD_TTL_DEFAULT", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HoldTTLMax, err = getEnvAsDuration("HOLD_TTL_MAX", time.Hour); err != nil {
		return nil, err
	}
	if cfg.HoldTTLDefault > cfg.HoldTTLMax {
		return nil, fmt.Errorf("HOLD_TTL_DEFAULT (%s) exceeds HOLD_TTL_MAX (%s)", cfg.HoldTTLDefault, cfg.HoldTTLMax)
	}
	if cfg.SweepInterval, err = getEnvAsDuration("SWEEP_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}

	cfg.StoragePath = getEnv("STORAGE_PATH", "./data/files")

	if cfg.RateLimitRPS, err = getEnvAsFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getEnvAsInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsFloat retrieves an environment variable as a float64.
func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration retrieves an environment variable as a time.Duration
// (e.g. "30s", "15m", "1h").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
