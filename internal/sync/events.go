package sync

import gosync "sync"

// EventType labels a cross-view broadcast.
type EventType string

const (
	// EventCompleted fires when a record reaches the terminal status.
	EventCompleted EventType = "completed"
	// EventDonated fires when a record is directly donated client-side.
	EventDonated EventType = "donated"
)

// Event is a best-effort wake-up for views: refresh now instead of
// waiting for the next timer tick. Timers remain the fallback; delivery
// is never guaranteed.
type Event struct {
	Type EventType
	ID   int64
}

// Broadcaster fans events out to subscribed views within the process.
type Broadcaster struct {
	mu   gosync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the view closes; events arriving afterwards are dropped.
func (b *Broadcaster) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, 8)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber with a full buffer misses the event; its timer catches up.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
