// Package config provides centralized configuration for Materna runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig holds runtime configuration values for the daemon, the
// notification pipeline, and the content provider clients.
type RuntimeConfig struct {
	// Daemon configuration
	Daemon DaemonConfig

	// HTTP client configuration
	HTTP HTTPConfig

	// Retry queue configuration
	RetryQueue RetryQueueConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Tips provider configuration
	Tips TipsConfig
}

// DaemonConfig holds daemon-related configuration.
type DaemonConfig struct {
	// StartupWait is the time to wait for the daemon to start before checking status.
	// Default: 500ms
	StartupWait time.Duration

	// KillTimeout is the timeout for graceful shutdown before force kill.
	// Default: 5s
	KillTimeout time.Duration
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout is the default HTTP request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts.
	// Default: 3
	MaxRetries int

	// RetryDelays are the delays between retry attempts.
	// Default: [0s, 5s, 30s]
	RetryDelays []time.Duration
}

// RetryQueueConfig holds retry queue configuration.
type RetryQueueConfig struct {
	// CheckInterval is how often the queue checks for ready notifications.
	// Default: 30s
	CheckInterval time.Duration

	// BackoffSchedule is the exponential backoff schedule for failed notifications.
	// Default: [5s, 30s, 2m, 5m, 15m]
	BackoffSchedule []time.Duration
}

// SchedulerConfig holds scheduler-related configuration.
type SchedulerConfig struct {
	// SleepThreshold is the time gap that indicates the system was sleeping.
	// If elapsed time since last tick exceeds this, the stale tick is
	// skipped and interval rules are re-anchored.
	// Default: 1h
	SleepThreshold time.Duration

	// OneShotGrace is how long after its time a missed one-shot reminder
	// still fires (appointments missed during sleep fire once on wake).
	// Default: 1h
	OneShotGrace time.Duration

	// EscalationFloor is the minimum re-fire gap an escalated rule can
	// shrink to.
	// Default: 5m
	EscalationFloor time.Duration
}

// TipsConfig holds content provider configuration.
type TipsConfig struct {
	// Timeout is the per-request timeout for provider calls.
	// Default: 45s
	Timeout time.Duration

	// MaxDailyCalls caps generated content requests per day.
	// Default: 10
	MaxDailyCalls int

	// Providers are tried in order until one succeeds. Empty means
	// generated content is disabled and static templates are used.
	Providers []ProviderConfig
}

// ProviderConfig describes one OpenAI-compatible chat completion endpoint.
type ProviderConfig struct {
	Name        string
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Daemon: DaemonConfig{
			StartupWait: 500 * time.Millisecond,
			KillTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			RetryDelays: []time.Duration{
				0,                // Immediate first attempt
				5 * time.Second,  // Retry after 5s
				30 * time.Second, // Retry after 30s
			},
		},
		RetryQueue: RetryQueueConfig{
			CheckInterval: 30 * time.Second,
			BackoffSchedule: []time.Duration{
				5 * time.Second,
				30 * time.Second,
				2 * time.Minute,
				5 * time.Minute,
				15 * time.Minute,
			},
		},
		Scheduler: SchedulerConfig{
			SleepThreshold:  1 * time.Hour,
			OneShotGrace:    1 * time.Hour,
			EscalationFloor: 5 * time.Minute,
		},
		Tips: TipsConfig{
			Timeout:       45 * time.Second,
			MaxDailyCalls: 10,
		},
	}
}

// Global holds the global runtime configuration instance.
// It is initialized with defaults, then file overrides, then environment
// variable overrides.
var Global = initGlobal()

// initGlobal initializes the global config.
func initGlobal() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromFile(DefaultFilePath())
	cfg.loadFromEnv()
	return cfg
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("MATERNA_DAEMON_STARTUP_WAIT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Daemon.StartupWait = d
		}
	}
	if v := os.Getenv("MATERNA_DAEMON_KILL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Daemon.KillTimeout = d
		}
	}
	if v := os.Getenv("MATERNA_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		}
	}
	if v := os.Getenv("MATERNA_HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.HTTP.MaxRetries = n
		}
	}
	if v := os.Getenv("MATERNA_RETRY_CHECK_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RetryQueue.CheckInterval = d
		}
	}
	if v := os.Getenv("MATERNA_SLEEP_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.SleepThreshold = d
		}
	}
	if v := os.Getenv("MATERNA_ONESHOT_GRACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.OneShotGrace = d
		}
	}
	if v := os.Getenv("MATERNA_ESCALATION_FLOOR"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Scheduler.EscalationFloor = d
		}
	}
	if v := os.Getenv("MATERNA_TIPS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Tips.Timeout = d
		}
	}
	if v := os.Getenv("MATERNA_TIPS_MAX_DAILY_CALLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Tips.MaxDailyCalls = n
		}
	}

	// A single provider can be configured entirely from the environment,
	// prepended so it wins over file-configured providers.
	if key := os.Getenv("MATERNA_TIPS_API_KEY"); key != "" {
		provider := ProviderConfig{
			Name:        "env",
			BaseURL:     "https://api.openai.com/v1",
			APIKey:      key,
			Model:       "gpt-4o-mini",
			MaxTokens:   500,
			Temperature: 0.7,
		}
		if v := os.Getenv("MATERNA_TIPS_BASE_URL"); v != "" {
			provider.BaseURL = v
		}
		if v := os.Getenv("MATERNA_TIPS_MODEL"); v != "" {
			provider.Model = v
		}
		c.Tips.Providers = append([]ProviderConfig{provider}, c.Tips.Providers...)
	}
}
