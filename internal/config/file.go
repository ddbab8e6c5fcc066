package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// FileConfig mirrors the optional TOML config file. All fields are
// optional; set values override the built-in defaults and are themselves
// overridden by MATERNA_* environment variables. Durations use Go
// duration syntax ("45s", "1h").
type FileConfig struct {
	Daemon struct {
		StartupWait string `toml:"startup_wait"`
		KillTimeout string `toml:"kill_timeout"`
	} `toml:"daemon"`

	HTTP struct {
		Timeout    string `toml:"timeout"`
		MaxRetries *int   `toml:"max_retries"`
	} `toml:"http"`

	Scheduler struct {
		SleepThreshold  string `toml:"sleep_threshold"`
		OneShotGrace    string `toml:"oneshot_grace"`
		EscalationFloor string `toml:"escalation_floor"`
	} `toml:"scheduler"`

	Tips struct {
		Timeout       string             `toml:"timeout"`
		MaxDailyCalls *int               `toml:"max_daily_calls"`
		Providers     []FileProviderSpec `toml:"providers"`
	} `toml:"tips"`
}

// FileProviderSpec is one [[tips.providers]] table in the config file.
type FileProviderSpec struct {
	Name        string  `toml:"name"`
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	Enabled     *bool   `toml:"enabled"`
}

// DefaultFilePath returns the config file path following XDG spec.
func DefaultFilePath() string {
	return filepath.Join(xdg.ConfigHome, "materna", "config.toml")
}

// loadFromFile applies overrides from the TOML file at path, if present.
// A missing file is not an error; a malformed file is silently ignored so
// a bad edit never bricks the CLI.
func (c *RuntimeConfig) loadFromFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}

	var fc FileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return
	}
	c.applyFile(&fc)
}

// applyFile copies the set fields of fc onto c.
func (c *RuntimeConfig) applyFile(fc *FileConfig) {
	setDuration := func(dst *time.Duration, raw string) {
		if raw == "" {
			return
		}
		if d, err := time.ParseDuration(raw); err == nil {
			*dst = d
		}
	}

	setDuration(&c.Daemon.StartupWait, fc.Daemon.StartupWait)
	setDuration(&c.Daemon.KillTimeout, fc.Daemon.KillTimeout)
	setDuration(&c.HTTP.Timeout, fc.HTTP.Timeout)
	setDuration(&c.Scheduler.SleepThreshold, fc.Scheduler.SleepThreshold)
	setDuration(&c.Scheduler.OneShotGrace, fc.Scheduler.OneShotGrace)
	setDuration(&c.Scheduler.EscalationFloor, fc.Scheduler.EscalationFloor)
	setDuration(&c.Tips.Timeout, fc.Tips.Timeout)

	if fc.HTTP.MaxRetries != nil && *fc.HTTP.MaxRetries >= 0 {
		c.HTTP.MaxRetries = *fc.HTTP.MaxRetries
	}
	if fc.Tips.MaxDailyCalls != nil && *fc.Tips.MaxDailyCalls >= 0 {
		c.Tips.MaxDailyCalls = *fc.Tips.MaxDailyCalls
	}

	for _, spec := range fc.Tips.Providers {
		if spec.Enabled != nil && !*spec.Enabled {
			continue
		}
		if spec.APIKey == "" || spec.BaseURL == "" {
			continue
		}
		provider := ProviderConfig{
			Name:        spec.Name,
			BaseURL:     spec.BaseURL,
			APIKey:      spec.APIKey,
			Model:       spec.Model,
			MaxTokens:   spec.MaxTokens,
			Temperature: spec.Temperature,
		}
		if provider.Model == "" {
			provider.Model = "gpt-4o-mini"
		}
		if provider.MaxTokens <= 0 {
			provider.MaxTokens = 500
		}
		if provider.Temperature <= 0 {
			provider.Temperature = 0.7
		}
		c.Tips.Providers = append(c.Tips.Providers, provider)
	}
}
