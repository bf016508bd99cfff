package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg = applyDefaults(cfg)

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.HTTP.Addr)
	}
	if cfg.Dashboard.AssumedAOV != 150 {
		t.Errorf("expected assumed AOV 150, got %v", cfg.Dashboard.AssumedAOV)
	}
	if cfg.Dashboard.DefaultRange != "Month" || cfg.Dashboard.ProductLimit != 5 {
		t.Errorf("unexpected dashboard defaults: %+v", cfg.Dashboard)
	}
	if cfg.Redis.TTL != 5*time.Minute || cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("unexpected redis/upstream defaults: %+v %+v", cfg.Redis, cfg.Upstream)
	}
	if cfg.Dashboard.RefreshInterval != 0 {
		t.Errorf("refresh should stay disabled by default")
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("ASSUMED_AOV", "120.5")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("REFRESH_INTERVAL", "2m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := Config{}
	cfg = applyEnv(cfg)

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.HTTP.Addr)
	}
	if cfg.Dashboard.AssumedAOV != 120.5 || cfg.Dashboard.RandomSeed != 42 {
		t.Errorf("unexpected dashboard env: %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.RefreshInterval != 2*time.Minute {
		t.Errorf("unexpected refresh interval: %v", cfg.Dashboard.RefreshInterval)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("unexpected redis url: %s", cfg.Redis.URL)
	}
}

func TestConfig_ApplyEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ASSUMED_AOV", "lots")
	cfg := applyDefaults(applyEnv(Config{}))
	if cfg.Dashboard.AssumedAOV != 150 {
		t.Errorf("invalid env should fall back to default, got %v", cfg.Dashboard.AssumedAOV)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("http:\n  addr: \":7070\"\ndashboard:\n  default_range: Week\n  refresh_interval: 30s\nlog:\n  format: json\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" || cfg.Dashboard.DefaultRange != "Week" || cfg.Log.Format != "json" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Dashboard.RefreshInterval != 30*time.Second {
		t.Errorf("unexpected refresh interval: %v", cfg.Dashboard.RefreshInterval)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.HTTP.Addr == "" {
		t.Errorf("expected defaults to apply")
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("http: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
