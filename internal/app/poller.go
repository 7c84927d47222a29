package app

import (
	"context"
	"log"
	"time"

	"github.com/mealbridge/mealbridge/internal/state"
	"github.com/mealbridge/mealbridge/internal/sync"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 60 * time.Second
)

// StartPollers launches one background refresher per scope. Each runs at
// its own cadence; nothing orders one scope's poll relative to another's.
// Returns immediately.
func StartPollers(ctx context.Context, eng *sync.Engine, scopes map[state.Scope]time.Duration) {
	for scope, interval := range scopes {
		go pollScope(ctx, eng, scope, interval)
	}
}

func pollScope(ctx context.Context, eng *sync.Engine, scope state.Scope, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}

	// Broadcast events are a best-effort early wake-up; the timer below
	// remains the fallback.
	events, cancelSub := eng.Events().Subscribe()
	defer cancelSub()

	failures := 0
	for {
		if _, err := eng.Refresh(ctx, scope); err != nil {
			failures++
			log.Printf("%s poll failed: %v", scope, err)
		} else {
			failures = 0
		}

		wait := calculateBackoff(failures, interval)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		case _, ok := <-events:
			if !ok {
				return
			}
		}
	}
}

// calculateBackoff doubles the interval per consecutive failure, capped
// at maxBackoff. Intervals already beyond the cap are left alone.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures && backoff < maxBackoff; i++ {
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	if backoff < base {
		backoff = base
	}
	return backoff
}
