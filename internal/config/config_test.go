package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"DB_PATH", "SEED_SAMPLE_DATA", "SESSION_SECRET", "SESSION_TTL", "BCRYPT_COST",
	"ADMIN_EMAIL", "ADMIN_NAME", "ADMIN_PASSWORD", "STATE_PATH",
	"LOGIN_MAX_ATTEMPTS", "LOCKOUT_DURATION",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		// t.Setenv restores the previous value when the test ends.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Database.Path != "sedco.db" || cfg.Auth.SessionSecret == "" || cfg.Client.StatePath == "" {
		t.Fatalf("unexpected empty defaults: %+v", cfg)
	}
	if cfg.Auth.MaxAttempts != 3 || cfg.Auth.LockoutDuration != 15*time.Minute {
		t.Fatalf("unexpected lockout policy: %d %v", cfg.Auth.MaxAttempts, cfg.Auth.LockoutDuration)
	}
	if cfg.Admin.Email != "admin@sedco.gov.my" || !cfg.Database.SampleData {
		t.Fatalf("unexpected seed defaults: %+v", cfg)
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is not set")
	}
	t.Setenv("SESSION_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.Database.Path != "test.db" {
		t.Fatalf("DB_PATH not applied: %s", cfg.Database.Path)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("LOCKOUT_DURATION", "2m")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SEED_SAMPLE_DATA", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.MaxAttempts != 5 || cfg.Auth.LockoutDuration != 2*time.Minute || cfg.Auth.SessionTTL != 30*time.Minute {
		t.Fatalf("overrides not applied: %+v", cfg.Auth)
	}
	if cfg.Database.SampleData {
		t.Fatalf("SEED_SAMPLE_DATA=false not applied")
	}
	sc := cfg.StoreConfig()
	if sc.Seed.AdminEmail != cfg.Admin.Email || sc.Path != cfg.Database.Path {
		t.Fatalf("store config mismatch: %+v", sc)
	}
	if strings.Contains(cfg.String(), "s3cret") {
		t.Fatalf("String leaks the session secret: %s", cfg.String())
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	for key, val := range map[string]string{
		"LOCKOUT_DURATION":   "soon",
		"SESSION_TTL":        "-1h",
		"BCRYPT_COST":        "99",
		"LOGIN_MAX_ATTEMPTS": "0",
	} {
		clearEnv(t)
		t.Setenv("SESSION_SECRET", "x")
		t.Setenv(key, val)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for %s=%s", key, val)
		}
	}
}
