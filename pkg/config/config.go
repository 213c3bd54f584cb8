// Package config loads harness configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all harness settings. Zero values are replaced by defaults,
// so a partial config file only overrides what it names.
type Config struct {
	Target struct {
		URL              string `yaml:"url"`                // base URL of the app under test
		StartupTimeoutMs int    `yaml:"startup_timeout_ms"` // how long to wait for the app to become reachable
	} `yaml:"target"`

	Login struct {
		ServerURL string `yaml:"server_url"` // value for the "Nextcloud URL" field and backend-url storage key
		User      string `yaml:"user"`
		Password  string `yaml:"password"`
	} `yaml:"login"`

	Browser struct {
		Headed   bool `yaml:"headed"` // run with a visible browser window
		SlowMoMs int  `yaml:"slow_mo_ms"`
	} `yaml:"browser"`

	Waits struct {
		AssertionMs  int `yaml:"assertion_ms"`   // DOM assertion timeout
		SettleMs     int `yaml:"settle_ms"`      // fixed delay after navigation-heavy steps
		CardExpandMs int `yaml:"card_expand_ms"` // card expand animation settle
	} `yaml:"waits"`

	Screenshots struct {
		Dir string `yaml:"dir"`
	} `yaml:"screenshots"`

	Fixtures struct {
		Dir string `yaml:"dir"` // optional JSON fixture overrides
	} `yaml:"fixtures"`

	Notify Notify `yaml:"notify"`
}

// Notify holds notification channel settings. Failures are always reported
// when channels are configured; successes only with on_success.
type Notify struct {
	Channels      []string `yaml:"channels"` // telegram, slack, webhook
	OnSuccess     bool     `yaml:"on_success"`
	TimeoutMs     int      `yaml:"timeout_ms"`
	TelegramToken string   `yaml:"telegram_token"`
	TelegramChat  string   `yaml:"telegram_chat"`
	SlackToken    string   `yaml:"slack_token"`
	SlackChannel  string   `yaml:"slack_channel"`
	WebhookURLs   []string `yaml:"webhook_urls"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file, expanding environment variables
// in the file body before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Target.URL == "" {
		c.Target.URL = "http://localhost:5173"
	}
	if c.Target.StartupTimeoutMs == 0 {
		c.Target.StartupTimeoutMs = 30000
	}
	if c.Login.ServerURL == "" {
		c.Login.ServerURL = "https://fake-nextcloud.com"
	}
	if c.Login.User == "" {
		c.Login.User = "testuser"
	}
	if c.Login.Password == "" {
		c.Login.Password = "password"
	}
	if c.Waits.AssertionMs == 0 {
		c.Waits.AssertionMs = 15000
	}
	if c.Waits.SettleMs == 0 {
		c.Waits.SettleMs = 2000
	}
	if c.Waits.CardExpandMs == 0 {
		c.Waits.CardExpandMs = 1000
	}
	if c.Screenshots.Dir == "" {
		c.Screenshots.Dir = "screenshots"
	}
	if c.Notify.TimeoutMs == 0 {
		c.Notify.TimeoutMs = 10000
	}
}

// AssertionTimeout returns the DOM assertion timeout as a duration.
func (c *Config) AssertionTimeout() time.Duration {
	return time.Duration(c.Waits.AssertionMs) * time.Millisecond
}

// SettleDelay returns the post-navigation settle delay as a duration.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Waits.SettleMs) * time.Millisecond
}

// CardExpandDelay returns the card expand settle delay as a duration.
func (c *Config) CardExpandDelay() time.Duration {
	return time.Duration(c.Waits.CardExpandMs) * time.Millisecond
}

// StartupTimeout returns the app reachability timeout as a duration.
func (c *Config) StartupTimeout() time.Duration {
	return time.Duration(c.Target.StartupTimeoutMs) * time.Millisecond
}
