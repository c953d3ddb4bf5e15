package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Router.Strategy != "hybrid" {
		t.Fatalf("unexpected default router strategy: %q", cfg.Router.Strategy)
	}
	if cfg.Router.MonthlyTokens != 1_000_000 {
		t.Fatalf("unexpected default monthly token budget: %d", cfg.Router.MonthlyTokens)
	}
	if cfg.Router.PreferLocalUnder != 2048 {
		t.Fatalf("unexpected prefer_local_under default: %d", cfg.Router.PreferLocalUnder)
	}
	if cfg.Search.MMRLambda != 0.7 {
		t.Fatalf("unexpected mmr_lambda default: %v", cfg.Search.MMRLambda)
	}
}

func TestLoad_AppliesEnvOverrides(t *testing.T) {
	t.Setenv("ROUTER_STRATEGY", "local_only")
	t.Setenv("ROUTER_MONTHLY_TOKENS", "500000")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PATIENT_ID", "patient-42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Router.Strategy != "local_only" {
		t.Fatalf("unexpected router strategy: %q", cfg.Router.Strategy)
	}
	if cfg.Router.MonthlyTokens != 500000 {
		t.Fatalf("unexpected monthly token budget: %d", cfg.Router.MonthlyTokens)
	}
	if !cfg.Models.Cloud.Enabled {
		t.Fatalf("expected cloud model enabled when GEMINI_API_KEY is set")
	}
	if cfg.Summary.PatientID != "patient-42" {
		t.Fatalf("unexpected patient id: %q", cfg.Summary.PatientID)
	}
}

func TestLoad_RejectsInvalidStrategy(t *testing.T) {
	t.Setenv("ROUTER_STRATEGY", "quantum")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected validation error for invalid router strategy")
	}
}

func TestLoad_RejectsInvalidBudget(t *testing.T) {
	t.Setenv("ROUTER_MONTHLY_TOKENS", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected parse error for invalid token budget")
	}
}

func TestMain(m *testing.M) {
	// Prevent ambient environment from affecting config tests unpredictably.
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("GEMINI_MODEL")
	os.Unsetenv("LOCAL_MODEL_URL")
	os.Unsetenv("LOCAL_MODELS_DIR")
	os.Unsetenv("LOCAL_MODEL_ENABLED")
	os.Unsetenv("ROUTER_STRATEGY")
	os.Unsetenv("ROUTER_MONTHLY_TOKENS")
	os.Unsetenv("ROUTER_PREFER_LOCAL_UNDER")
	os.Unsetenv("PATIENT_ID")
	os.Exit(m.Run())
}
