package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPrefersExplicitDSN(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "postgres://app:secret@db:5432/techmart"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://app:secret@db:5432/techmart" {
		t.Fatalf("explicit DSN must be untouched, got %s", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromLegacyFields(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5433,
		LegacyUser:     "app",
		LegacyPassword: "s3cret",
		LegacyName:     "techmart",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, fragment := range []string{"postgres://", "app:s3cret@", "db.internal:5433", "/techmart", "sslmode=require"} {
		if !strings.Contains(cfg.DSN, fragment) {
			t.Fatalf("expected %q in DSN %q", fragment, cfg.DSN)
		}
	}
}

func TestEnsureDSNReportsMissingFields(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, env := range []string{EnvDBUser, EnvDBName} {
		if !strings.Contains(err.Error(), env) {
			t.Fatalf("expected %s in error %q", env, err)
		}
	}
}

func TestAppEnvHelpers(t *testing.T) {
	t.Parallel()

	if !(AppConfig{Env: AppEnvDev}).IsDev() {
		t.Fatalf("dev should be dev")
	}
	if !(AppConfig{Env: "PROD"}).IsProd() {
		t.Fatalf("env check is case-insensitive")
	}
	if (AppConfig{Env: AppEnvProd}).IsDev() {
		t.Fatalf("prod is not dev")
	}
}
