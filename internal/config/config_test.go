package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_NAME", "LOG_LEVEL", "REDIS_URL", "LOCK_TTL_SECONDS", "LOCK_TTL", "RUN_TIMEOUT_SECONDS", "RUN_TIMEOUT", "LOCK_RETRY_INTERVAL", "LOCK_MAX_RETRIES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != defaultAppName {
		t.Fatalf("expected app name %q, got %q", defaultAppName, cfg.AppName)
	}
	if cfg.UsesRedis() {
		t.Fatal("redis should be disabled without REDIS_URL")
	}
	if cfg.LockTTL != defaultLockTTL || cfg.RunTimeout != defaultRunTimeout {
		t.Fatalf("unexpected durations: ttl=%s run=%s", cfg.LockTTL, cfg.RunTimeout)
	}
	if cfg.LockMaxRetries != defaultLockMaxRetries {
		t.Fatalf("expected %d retries, got %d", defaultLockMaxRetries, cfg.LockMaxRetries)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOCK_TTL_SECONDS", "")
	t.Setenv("LOCK_TTL", "1500ms")
	t.Setenv("RUN_TIMEOUT_SECONDS", "3")
	t.Setenv("LOCK_RETRY_INTERVAL", "5ms")
	t.Setenv("LOCK_MAX_RETRIES", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected lowercased log level, got %q", cfg.LogLevel)
	}
	if !cfg.UsesRedis() {
		t.Fatal("expected redis to be enabled")
	}
	if cfg.LockTTL != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s ttl, got %s", cfg.LockTTL)
	}
	if cfg.RunTimeout != 3*time.Second {
		t.Fatalf("expected 3s run timeout, got %s", cfg.RunTimeout)
	}
	if cfg.LockRetryInterval != 5*time.Millisecond || cfg.LockMaxRetries != 7 {
		t.Fatalf("unexpected retry policy: %s x%d", cfg.LockRetryInterval, cfg.LockMaxRetries)
	}
}

func TestLoadSecondsTakePrecedence(t *testing.T) {
	t.Setenv("LOCK_TTL_SECONDS", "2")
	t.Setenv("LOCK_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LockTTL != 2*time.Second {
		t.Fatalf("expected 2s, got %s", cfg.LockTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LOCK_TTL_SECONDS":    "soon",
		"RUN_TIMEOUT":         "forever",
		"LOCK_RETRY_INTERVAL": "10",
		"LOCK_MAX_RETRIES":    "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}
