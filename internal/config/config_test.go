package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "ENVIRONMENT", "MATCH_WEIGHT_PROXIMITY", "DEFAULT_MAX_DISTANCE_KM"} {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Port != "8780" {
		t.Errorf("Port = %q, want 8780", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.MatchWeightProximity != 0.4 || cfg.MatchWeightRating != 0.3 || cfg.MatchWeightExperience != 0.3 {
		t.Errorf("match weights = %v/%v/%v, want 0.4/0.3/0.3",
			cfg.MatchWeightProximity, cfg.MatchWeightRating, cfg.MatchWeightExperience)
	}
	if cfg.DefaultMaxDistanceKm != 20 {
		t.Errorf("DefaultMaxDistanceKm = %v, want 20", cfg.DefaultMaxDistanceKm)
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("expected default allowed origins")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("MATCH_WEIGHT_PROXIMITY", "0.5")
	t.Setenv("DEFAULT_MAX_DISTANCE_KM", "35")
	t.Setenv("BUNDEBUG", "true")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.MatchWeightProximity != 0.5 {
		t.Errorf("MatchWeightProximity = %v, want 0.5", cfg.MatchWeightProximity)
	}
	if cfg.DefaultMaxDistanceKm != 35 {
		t.Errorf("DefaultMaxDistanceKm = %v, want 35", cfg.DefaultMaxDistanceKm)
	}
	if !cfg.BunDebug {
		t.Error("BunDebug = false, want true")
	}
}

func TestGetEnvAsFloat_InvalidFallsBack(t *testing.T) {
	t.Setenv("MATCH_WEIGHT_RATING", "not-a-number")
	if got := getEnvAsFloat("MATCH_WEIGHT_RATING", 0.3); got != 0.3 {
		t.Errorf("getEnvAsFloat = %v, want fallback 0.3", got)
	}
}
