package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PollInterval.Std() != 60*time.Second {
		t.Fatalf("poll interval = %s, want 60s", cfg.PollInterval.Std())
	}
	if cfg.StalenessWindow.Std() != 30*time.Second {
		t.Fatalf("staleness window = %s, want 30s", cfg.StalenessWindow.Std())
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("max retries = %d, want 3", cfg.MaxRetries)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.APIBaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty api_base_url")
	}

	cfg = DefaultConfigWithRoot(t.TempDir())
	cfg.StalenessWindow = Duration(2 * cfg.PollInterval.Std())
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when staleness exceeds poll interval")
	}
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("COINLENS_API_BASE", "http://localhost:9000/api/v3")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.LoadEnv()
	if cfg.APIBaseURL != "http://localhost:9000/api/v3" {
		t.Fatalf("api base = %s, want env override", cfg.APIBaseURL)
	}
}

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	cfg := mgr.Get()
	cfg.APIBaseURL = "http://localhost:9000/api/v3"
	cfg.MaxRetries = 5

	if err := mgr.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated := mgr.Get()
	if updated.APIBaseURL != cfg.APIBaseURL || updated.MaxRetries != 5 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	if err := mgr.Watch(ctx, func(cfg Config) {
		reloaded <- struct{}{}
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := mgr.Get()
	cfg.MaxRetries = 7

	if err := writeConfigFile(mgr.Path(), cfg); err != nil {
		t.Fatalf("writeConfigFile: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire on config change")
	}

	if mgr.Get().MaxRetries != 7 {
		t.Fatalf("reload not applied: %+v", mgr.Get())
	}
}

func TestDurationJSONRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"1m30s"` {
		t.Fatalf("MarshalJSON = %s", data)
	}

	var back Duration
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}
