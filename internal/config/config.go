// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the offers service.
type Config struct {
	Port                 string
	DatabaseURL          string
	RedisURL             string
	SweepIntervalMinutes int // how often the notification/expiry sweeper fires
	VerifyTTLMinutes     int // lifetime of a contact verification code
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("OFFERS_PORT")
	if port == "" {
		port = "8083"
	}

	sweep := 5
	if s := os.Getenv("SWEEP_INTERVAL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SWEEP_INTERVAL_MINUTES must be a positive integer, got %q", s)
		}
		sweep = v
	}

	verifyTTL := 15
	if s := os.Getenv("VERIFY_TTL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("VERIFY_TTL_MINUTES must be a positive integer, got %q", s)
		}
		verifyTTL = v
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		SweepIntervalMinutes: sweep,
		VerifyTTLMinutes:     verifyTTL,
	}, nil
}
