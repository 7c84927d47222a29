// Package config loads the mealbridge client configuration from
// ~/.config/mealbridge/config.toml, falling back to defaults when the
// file is missing.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// PollPolicy centralizes the per-scope refresh cadence. Tracker views
// poll far more often than discovery views; the tradeoffs live here
// instead of being hardcoded per screen.
type PollPolicy struct {
	Tracker   time.Duration // donor's owned-records tracker
	Discovery time.Duration // receiver discovery lists
	Completed time.Duration // completed projection
	Stats     time.Duration // impact stats recompute
}

// Config captures everything the client needs at startup.
type Config struct {
	APIBind string
	UserID  string
	Poll    PollPolicy
}

const (
	defaultConfigPath = "~/.config/mealbridge/config.toml"
	defaultAPIBind    = "127.0.0.1:8080"

	defaultTrackerPoll   = 1 * time.Second
	defaultDiscoveryPoll = 100 * time.Second
	defaultCompletedPoll = 100 * time.Second
	defaultStatsPoll     = 5 * time.Second
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func defaultPolicy() PollPolicy {
	return PollPolicy{
		Tracker:   defaultTrackerPoll,
		Discovery: defaultDiscoveryPoll,
		Completed: defaultCompletedPoll,
		Stats:     defaultStatsPoll,
	}
}

// Load locates and parses the config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIBind: defaultAPIBind, Poll: defaultPolicy()}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind string `toml:"api_bind"`
		UserID  string `toml:"user_id"`
		Poll    struct {
			TrackerSeconds   int `toml:"tracker_seconds"`
			DiscoverySeconds int `toml:"discovery_seconds"`
			CompletedSeconds int `toml:"completed_seconds"`
			StatsSeconds     int `toml:"stats_seconds"`
		} `toml:"poll"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBind = strings.TrimSpace(raw.APIBind)
	if cfg.APIBind == "" {
		cfg.APIBind = defaultAPIBind
	}
	cfg.UserID = strings.TrimSpace(raw.UserID)

	if raw.Poll.TrackerSeconds > 0 {
		cfg.Poll.Tracker = time.Duration(raw.Poll.TrackerSeconds) * time.Second
	}
	if raw.Poll.DiscoverySeconds > 0 {
		cfg.Poll.Discovery = time.Duration(raw.Poll.DiscoverySeconds) * time.Second
	}
	if raw.Poll.CompletedSeconds > 0 {
		cfg.Poll.Completed = time.Duration(raw.Poll.CompletedSeconds) * time.Second
	}
	if raw.Poll.StatsSeconds > 0 {
		cfg.Poll.Stats = time.Duration(raw.Poll.StatsSeconds) * time.Second
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
