// Package config loads the CLI client's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds client settings. Zero values are filled from Defaults.
type Config struct {
	ServerURL  string   `toml:"server_url"`
	SessionDir string   `toml:"session_dir"`
	Timeout    Duration `toml:"timeout"`
	Debug      bool     `toml:"debug"`

	// Client-side pacing
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`

	// Circuit breaker
	BreakerMinRequests      uint32   `toml:"breaker_min_requests"`
	BreakerFailureThreshold float64  `toml:"breaker_failure_threshold"`
	BreakerOpenTimeout      Duration `toml:"breaker_open_timeout"`
}

// Duration reads TOML strings such as "30s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Defaults returns the settings used when no file is given
func Defaults() *Config {
	return &Config{
		ServerURL:               "http://localhost:8080",
		Timeout:                 Duration{30 * time.Second},
		RequestsPerSecond:       10,
		Burst:                   5,
		BreakerMinRequests:      5,
		BreakerFailureThreshold: 0.6,
		BreakerOpenTimeout:      Duration{30 * time.Second},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults. TKP_SERVER overrides the server URL.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("TKP_SERVER"); v != "" {
		cfg.ServerURL = v
	}

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Defaults()
	if c.Timeout.Duration <= 0 {
		c.Timeout = d.Timeout
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.BreakerMinRequests == 0 {
		c.BreakerMinRequests = d.BreakerMinRequests
	}
	if c.BreakerFailureThreshold <= 0 || c.BreakerFailureThreshold > 1 {
		c.BreakerFailureThreshold = d.BreakerFailureThreshold
	}
	if c.BreakerOpenTimeout.Duration <= 0 {
		c.BreakerOpenTimeout = d.BreakerOpenTimeout
	}
}

// Validate checks the server URL
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server_url %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server_url %q: missing host", c.ServerURL)
	}
	return nil
}
