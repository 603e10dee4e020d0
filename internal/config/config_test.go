package config_test

import (
	"testing"

	"talentbridge/offers-service/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/offers")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	if _, err := config.Load(); err == nil {
		t.Error("Load should fail without DATABASE_URL")
	}
}

func TestLoad_MissingRedisURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/offers")
	t.Setenv("REDIS_URL", "")
	if _, err := config.Load(); err == nil {
		t.Error("Load should fail without REDIS_URL")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("OFFERS_PORT", "")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "")
	t.Setenv("VERIFY_TTL_MINUTES", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load unexpected error: %v", err)
	}
	if cfg.Port != "8083" {
		t.Errorf("default Port = %q, want 8083", cfg.Port)
	}
	if cfg.SweepIntervalMinutes != 5 {
		t.Errorf("default SweepIntervalMinutes = %d, want 5", cfg.SweepIntervalMinutes)
	}
	if cfg.VerifyTTLMinutes != 15 {
		t.Errorf("default VerifyTTLMinutes = %d, want 15", cfg.VerifyTTLMinutes)
	}
}

func TestLoad_InvalidSweepInterval(t *testing.T) {
	setRequired(t)
	for _, bad := range []string{"0", "-3", "six"} {
		t.Setenv("SWEEP_INTERVAL_MINUTES", bad)
		if _, err := config.Load(); err == nil {
			t.Errorf("Load should reject SWEEP_INTERVAL_MINUTES=%q", bad)
		}
	}
}

func TestLoad_ExplicitValues(t *testing.T) {
	setRequired(t)
	t.Setenv("OFFERS_PORT", "9090")
	t.Setenv("SWEEP_INTERVAL_MINUTES", "2")
	t.Setenv("VERIFY_TTL_MINUTES", "30")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.SweepIntervalMinutes != 2 || cfg.VerifyTTLMinutes != 30 {
		t.Errorf("Load returned %+v, want overrides applied", cfg)
	}
}
