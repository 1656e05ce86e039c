package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netlens.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Listen != ":8080" {
		t.Errorf("listen = %q, want :8080", cfg.Listen)
	}
	if cfg.Session.ConnectTimeout.Duration() != 10*time.Second {
		t.Errorf("connect timeout = %v, want 10s", cfg.Session.ConnectTimeout.Duration())
	}
	if cfg.Session.CommandTimeout.Duration() != 30*time.Second {
		t.Errorf("command timeout = %v, want 30s", cfg.Session.CommandTimeout.Duration())
	}
	if cfg.Discovery.Preferred != "cdp" {
		t.Errorf("preferred = %q, want cdp", cfg.Discovery.Preferred)
	}
	if cfg.Discovery.MaxConcurrent != 5 {
		t.Errorf("max concurrent = %d, want 5", cfg.Discovery.MaxConcurrent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
testbed: /etc/netlens/testbed.yaml
database:
  path: /var/lib/netlens/journal.db
session:
  connect_timeout: 5s
  command_timeout: 1m
discovery:
  preferred: lldp
  max_concurrent: 10
probe:
  timeout: 15s
`)

	cfg, from, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if from != path {
		t.Errorf("from = %q, want %q", from, path)
	}
	if cfg.Listen != ":9090" {
		t.Errorf("listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Session.ConnectTimeout.Duration() != 5*time.Second {
		t.Errorf("connect timeout = %v, want 5s", cfg.Session.ConnectTimeout.Duration())
	}
	if cfg.Session.CommandTimeout.Duration() != time.Minute {
		t.Errorf("command timeout = %v, want 1m", cfg.Session.CommandTimeout.Duration())
	}
	if cfg.Discovery.Preferred != "lldp" {
		t.Errorf("preferred = %q, want lldp", cfg.Discovery.Preferred)
	}
	if cfg.Probe.Timeout.Duration() != 15*time.Second {
		t.Errorf("probe timeout = %v, want 15s", cfg.Probe.Timeout.Duration())
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
testbed: lab.yaml
`)

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("listen default not applied: %q", cfg.Listen)
	}
	if cfg.Testbed != "lab.yaml" {
		t.Errorf("testbed = %q, want lab.yaml", cfg.Testbed)
	}
	if cfg.Discovery.Preferred != "cdp" {
		t.Errorf("preferred default not applied: %q", cfg.Discovery.Preferred)
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid yaml",
			content: "listen: [not closed",
		},
		{
			name:    "bad duration",
			content: "session:\n  connect_timeout: soon\n",
		},
		{
			name:    "bad preferred protocol",
			content: "discovery:\n  preferred: ospf\n",
		},
		{
			name:    "negative concurrency",
			content: "discovery:\n  max_concurrent: -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, _, err := LoadFromPath(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadHonorsEnvPath(t *testing.T) {
	path := writeConfig(t, "listen: \":7000\"\n")
	t.Setenv(EnvConfigPath, path)

	cfg, from, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if from != path {
		t.Errorf("from = %q, want %q", from, path)
	}
	if cfg.Listen != ":7000" {
		t.Errorf("listen = %q, want :7000", cfg.Listen)
	}
}
