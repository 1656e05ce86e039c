// Package config provides server configuration.
//
// Config file locations (priority order):
//  1. $NETLENS_CONFIG
//  2. ./netlens.yaml
//
// Missing files are not an error; defaults apply.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"netlens/internal/domain"
)

// EnvConfigPath is the environment variable for an explicit config path.
const EnvConfigPath = "NETLENS_CONFIG"

// ConfigFileName is the default config file name.
const ConfigFileName = "netlens.yaml"

// Config is the root configuration structure.
type Config struct {
	Listen    string          `yaml:"listen"`
	Testbed   string          `yaml:"testbed"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Probe     ProbeConfig     `yaml:"probe"`
}

// DatabaseConfig holds command journal settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds per-device session timeouts.
type SessionConfig struct {
	ConnectTimeout Duration `yaml:"connect_timeout"`
	CommandTimeout Duration `yaml:"command_timeout"`
}

// DiscoveryConfig holds neighbor discovery settings.
type DiscoveryConfig struct {
	// Preferred is the protocol whose values win during reconciliation,
	// "cdp" or "lldp".
	Preferred     string `yaml:"preferred"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

// ProbeConfig holds reachability probe settings.
type ProbeConfig struct {
	Timeout Duration `yaml:"timeout"`
}

// Load finds and loads the config file, or returns defaults if none found.
// The second return value is the path the config came from, empty for
// defaults.
func Load() (*Config, string, error) {
	path := findConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// DefaultConfig returns sensible defaults for a new installation.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Testbed == "" {
		c.Testbed = "testbed.yaml"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./netlens.db"
	}
	if c.Session.ConnectTimeout == 0 {
		c.Session.ConnectTimeout = Duration(10 * time.Second)
	}
	if c.Session.CommandTimeout == 0 {
		c.Session.CommandTimeout = Duration(30 * time.Second)
	}
	if c.Discovery.Preferred == "" {
		c.Discovery.Preferred = string(domain.ProtocolCDP)
	}
	if c.Discovery.MaxConcurrent == 0 {
		c.Discovery.MaxConcurrent = 5
	}
	if c.Probe.Timeout == 0 {
		c.Probe.Timeout = Duration(30 * time.Second)
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	switch c.Discovery.Preferred {
	case string(domain.ProtocolCDP), string(domain.ProtocolLLDP):
	default:
		return fmt.Errorf("config: discovery.preferred must be %q or %q, got %q",
			domain.ProtocolCDP, domain.ProtocolLLDP, c.Discovery.Preferred)
	}
	if c.Discovery.MaxConcurrent < 1 {
		return fmt.Errorf("config: discovery.max_concurrent must be positive, got %d", c.Discovery.MaxConcurrent)
	}
	return nil
}

func findConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
