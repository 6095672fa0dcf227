package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if cfg.Engine.Capacity != 2000 {
		t.Errorf("default capacity = %d, want 2000", cfg.Engine.Capacity)
	}
	if cfg.Engine.DebounceInterval != 1500*time.Millisecond {
		t.Errorf("default debounce = %v, want 1.5s", cfg.Engine.DebounceInterval)
	}
	if cfg.Cache.TTL != 30*time.Second || cfg.Cache.MaxEntries != 5 {
		t.Errorf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if filepath.Base(cfg.DataDir) != "dayflow" {
		t.Errorf("data dir should end in dayflow, got %s", cfg.DataDir)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
engine:
  capacity: 500
  debounce_interval: 2s
redis_addr: localhost:6379
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Capacity != 500 {
		t.Errorf("capacity = %d, want 500", cfg.Engine.Capacity)
	}
	if cfg.Engine.DebounceInterval != 2*time.Second {
		t.Errorf("debounce = %v, want 2s", cfg.Engine.DebounceInterval)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.RedisAddr)
	}
	// Untouched fields keep their defaults.
	if cfg.Cache.MaxEntries != 5 {
		t.Errorf("cache max entries = %d, want default 5", cfg.Cache.MaxEntries)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file should not fail: %v", err)
	}
	if cfg.Engine.Capacity != 2000 {
		t.Errorf("capacity = %d, want default 2000", cfg.Engine.Capacity)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("DAYFLOW_CAPACITY", "100")
	t.Setenv("DAYFLOW_NATS_URL", "nats://localhost:4222")
	t.Setenv("DAYFLOW_CACHE_TTL", "10s")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  capacity: 500\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.Capacity != 100 {
		t.Errorf("env should win over file, capacity = %d", cfg.Engine.Capacity)
	}
	if cfg.NatsURL != "nats://localhost:4222" {
		t.Errorf("nats url = %q", cfg.NatsURL)
	}
	if cfg.Cache.TTL != 10*time.Second {
		t.Errorf("cache ttl = %v", cfg.Cache.TTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  capacity: -1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("negative capacity should fail validation")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("engine:\n  capacity: 500\n"), 0600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("engine:\n  capacity: 750\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Engine.Capacity != 750 {
			t.Errorf("reloaded capacity = %d, want 750", cfg.Engine.Capacity)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
