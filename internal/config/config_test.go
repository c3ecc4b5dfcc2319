package config

import (
	"testing"
	"time"
)

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `user_agent: TestAgent/1.0
timeout: 45s
output_dir: /tmp/out
probe_variants: true
redis_url: redis://localhost:6379/0
`)
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.UserAgent != "TestAgent/1.0" {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if !cfg.ProbeVariants {
		t.Error("ProbeVariants not set")
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "{}\n")
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q, want default", cfg.UserAgent)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Timeout)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q, want .", cfg.OutputDir)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.ProbeVariants {
		t.Error("ProbeVariants should default to false")
	}
}

func TestLoadFromFileBadTimeout(t *testing.T) {
	path := writeFile(t, "config.yaml", "timeout: soon\n")
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	// Unparseable durations fall back to the default rather than failing the run.
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s fallback", cfg.Timeout)
	}
}
