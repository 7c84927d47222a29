package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != defaultAPIBind {
		t.Fatalf("APIBind = %q, want %q", cfg.APIBind, defaultAPIBind)
	}
	if cfg.UserID != "" {
		t.Fatalf("UserID = %q, want empty", cfg.UserID)
	}
	if cfg.Poll.Tracker != time.Second {
		t.Fatalf("tracker poll = %v, want 1s", cfg.Poll.Tracker)
	}
	if cfg.Poll.Discovery != 100*time.Second {
		t.Fatalf("discovery poll = %v, want 100s", cfg.Poll.Discovery)
	}
	if cfg.Poll.Stats != 5*time.Second {
		t.Fatalf("stats poll = %v, want 5s", cfg.Poll.Stats)
	}
}

func TestLoad_ParsesFieldsAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
api_bind = "10.0.0.5:9090"
user_id = "user-7"

[poll]
tracker_seconds = 3
stats_seconds = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBind != "10.0.0.5:9090" {
		t.Fatalf("APIBind = %q", cfg.APIBind)
	}
	if cfg.UserID != "user-7" {
		t.Fatalf("UserID = %q", cfg.UserID)
	}
	if cfg.Poll.Tracker != 3*time.Second {
		t.Fatalf("tracker poll = %v, want 3s", cfg.Poll.Tracker)
	}
	if cfg.Poll.Stats != 30*time.Second {
		t.Fatalf("stats poll = %v, want 30s", cfg.Poll.Stats)
	}
	// Unset intervals keep their defaults.
	if cfg.Poll.Discovery != 100*time.Second {
		t.Fatalf("discovery poll = %v, want default 100s", cfg.Poll.Discovery)
	}
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_bind = ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed toml")
	}
}

func TestExpandPath_Home(t *testing.T) {
	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandPath = %q", got)
	}
}
