package ui

import (
	"time"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/sync"
)

// tickMsg drives the periodic snapshot re-read.
type tickMsg time.Time

// busMsg carries a cross-view broadcast into the update loop.
type busMsg sync.Event

// commitDoneMsg reports the outcome of a lifecycle transition.
type commitDoneMsg struct {
	record pickup.Record
	action pickup.Action
	err    error
}

// donateDoneMsg reports the outcome of a direct donation.
type donateDoneMsg struct {
	id  int64
	err error
}

// cartDoneMsg reports the outcome of a cart mutation.
type cartDoneMsg struct {
	op  string // "add", "delete", "request"
	err error
}
