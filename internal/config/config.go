package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName           = "CongoLedger"
	defaultAppEnv            = "development"
	defaultLogLevel          = "info"
	defaultRunTimeout        = 30 * time.Second
	defaultLockTTL           = 5 * time.Second
	defaultLockRetryInterval = 25 * time.Millisecond
	defaultLockMaxRetries    = 40
	defaultEventStream       = "ledger:events"
	defaultSequenceKey       = "ledger:seq:account"
	runSecondsEnvVar         = "RUN_TIMEOUT_SECONDS"
	runDurationEnvVar        = "RUN_TIMEOUT"
	lockTTLSecondsEnvVar     = "LOCK_TTL_SECONDS"
	lockTTLDurEnvVar         = "LOCK_TTL"
	lockRetryEnvVar          = "LOCK_RETRY_INTERVAL"
	lockMaxRetriesEnvVar     = "LOCK_MAX_RETRIES"
)

// Config captures ledger runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	LogLevel          string
	RedisURL          string
	EventStream       string
	SequenceKey       string
	RunTimeout        time.Duration
	LockTTL           time.Duration
	LockRetryInterval time.Duration
	LockMaxRetries    int
}

// Load reads configuration values from the environment and populates a Config instance.
// REDIS_URL is optional; without it the ledger runs on in-process locks and ids.
func Load() (Config, error) {
	cfg := Config{
		AppName:           getEnv("APP_NAME", defaultAppName),
		AppEnv:            getEnv("APP_ENV", defaultAppEnv),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		RedisURL:          os.Getenv("REDIS_URL"),
		EventStream:       getEnv("EVENT_STREAM", defaultEventStream),
		SequenceKey:       getEnv("SEQUENCE_KEY", defaultSequenceKey),
		LockRetryInterval: defaultLockRetryInterval,
		LockMaxRetries:    defaultLockMaxRetries,
	}

	var err error
	if cfg.RunTimeout, err = durationFromEnv(runSecondsEnvVar, runDurationEnvVar, defaultRunTimeout); err != nil {
		return Config{}, err
	}
	if cfg.LockTTL, err = durationFromEnv(lockTTLSecondsEnvVar, lockTTLDurEnvVar, defaultLockTTL); err != nil {
		return Config{}, err
	}

	if v := os.Getenv(lockRetryEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", lockRetryEnvVar, err)
		}
		cfg.LockRetryInterval = d
	}

	if v := os.Getenv(lockMaxRetriesEnvVar); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", lockMaxRetriesEnvVar, err)
		}
		cfg.LockMaxRetries = n
	}

	if cfg.LockTTL <= 0 {
		return Config{}, fmt.Errorf("lock ttl must be positive")
	}
	if cfg.LockMaxRetries <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", lockMaxRetriesEnvVar)
	}

	return cfg, nil
}

// UsesRedis reports whether locks, ids and events should go through Redis.
func (c Config) UsesRedis() bool {
	return c.RedisURL != ""
}

// durationFromEnv prefers the whole-seconds variable over the Go duration one.
func durationFromEnv(secondsVar, durationVar string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsVar, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationVar, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
