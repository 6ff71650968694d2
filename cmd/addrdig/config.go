// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/siemens/addrdig/lookup"

	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an addrdig run, as read from an optional YAML
// configuration file and then overridden by any CLI flags given.
type Config struct {
	Workers  int            `yaml:"workers"`
	Service  ServiceConfig  `yaml:"service"`
	Resolver ResolverConfig `yaml:"resolver"`
	Display  DisplayConfig  `yaml:"display"`
}

// ServiceConfig describes the lookup service to query.
type ServiceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 for unlimited
	UserAgent string        `yaml:"user_agent"`
}

// ResolverConfig describes the DNS resolver for turning names into addresses.
type ResolverConfig struct {
	Enabled bool          `yaml:"enabled"`
	Address string        `yaml:"address"`
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// DisplayConfig controls the live terminal display.
type DisplayConfig struct {
	Live            bool          `yaml:"live"`
	Indentation     int           `yaml:"indent"`
	SpinnerInterval time.Duration `yaml:"spinner"`
}

// DefaultConfig returns the configuration used when there is no configuration
// file.
func DefaultConfig() Config {
	return Config{
		Workers: 5,
		Service: ServiceConfig{
			BaseURL:   lookup.DefaultBaseURL,
			Timeout:   10 * time.Second,
			UserAgent: "addrdig",
		},
		Resolver: ResolverConfig{
			Address: "8.8.8.8:53",
			Workers: 2,
			Timeout: 5 * time.Second,
		},
		Display: DisplayConfig{
			Live:            true,
			Indentation:     3,
			SpinnerInterval: 100 * time.Millisecond,
		},
	}
}

// LoadConfig reads the YAML configuration file at path on top of the default
// configuration. An empty path returns the default configuration.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read configuration: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values out of range.
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > 64 {
		return fmt.Errorf("workers out of range [1..64]")
	}
	u, err := url.Parse(c.Service.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid lookup service base URL %q", c.Service.BaseURL)
	}
	if c.Service.Timeout < 0 {
		return fmt.Errorf("lookup timeout must not be negative")
	}
	if c.Service.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.Resolver.Enabled {
		if c.Resolver.Address == "" {
			return fmt.Errorf("missing DNS resolver address")
		}
		if c.Resolver.Workers < 1 || c.Resolver.Workers > 16 {
			return fmt.Errorf("resolver workers out of range [1..16]")
		}
	}
	if c.Display.Indentation < 0 || c.Display.Indentation > 80 {
		return fmt.Errorf("indentation width out of range [0..80]")
	}
	if c.Display.SpinnerInterval < 10*time.Millisecond {
		return fmt.Errorf("spinner interval must be at least 10ms")
	}
	return nil
}
