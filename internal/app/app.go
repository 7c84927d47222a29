package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/pickupapi"
	"github.com/mealbridge/mealbridge/internal/prefs"
	"github.com/mealbridge/mealbridge/internal/shadow"
	"github.com/mealbridge/mealbridge/internal/state"
	"github.com/mealbridge/mealbridge/internal/sync"
	"github.com/mealbridge/mealbridge/internal/ui"
)

// Options configure the mealbridge application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/mealbridge/prefs.toml
	StatePath  string // empty uses default ~/.local/share/mealbridge/state.json
	UserID     string // overrides the configured user id
}

// Run boots the mealbridge TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.UserID != "" {
		cfg.UserID = opts.UserID
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	shadowStore, err := shadow.Open(opts.StatePath)
	if err != nil {
		return fmt.Errorf("open local state: %w", err)
	}

	client, err := pickupapi.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore()
	bus := sync.NewBroadcaster()
	eng := sync.NewEngine(client, shadowStore, store, bus, cfg.UserID)
	defer eng.Close()

	// Scoped fetches need an identity; a signed-out session only polls
	// the public lists.
	scopes := map[state.Scope]time.Duration{
		state.ScopeAvailable: cfg.Poll.Discovery,
		state.ScopeCompleted: cfg.Poll.Completed,
	}
	if cfg.UserID != "" {
		scopes[state.ScopeOwned] = cfg.Poll.Tracker
		scopes[state.ScopePending] = cfg.Poll.Stats
		scopes[state.ScopeCart] = cfg.Poll.Discovery
	}

	StartPollers(ctx, eng, scopes)

	// Populate the public working sets before the UI starts.
	_, _ = eng.Refresh(ctx, state.ScopeAvailable)
	_, _ = eng.Refresh(ctx, state.ScopeCompleted)

	uiOpts := ui.Options{
		Engine:    eng,
		Config:    cfg,
		ThemeName: userPrefs.Theme,
		Role:      userPrefs.Role,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(ctx, uiOpts)
}
