// Package state holds the working sets each view renders from. One store
// serves every view; pollers write, views read snapshots.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

// Scope names a query dimension against the backend. Each scope has its
// own working set, fetched and refreshed independently.
type Scope string

const (
	ScopeAvailable Scope = "available" // receiver-visible active pickups
	ScopeOwned     Scope = "owned"     // records owned by this donor
	ScopeCompleted Scope = "completed" // globally visible completed records
	ScopePending   Scope = "pending"   // donor's listed-but-unclaimed items
	ScopeCart      Scope = "cart"      // donor's drafted items
)

// WorkingSet is the latest data available for one scope.
type WorkingSet struct {
	Records             []pickup.Record
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	HasData             bool
}

// IsOffline returns true when the scope has been unreachable for multiple
// polls.
func (ws WorkingSet) IsOffline() bool {
	return ws.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the per-scope working sets.
type Store struct {
	mu   sync.RWMutex
	sets map[Scope]WorkingSet
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{sets: make(map[Scope]WorkingSet)}
}

// Apply replaces a scope's working set wholesale. The last completed
// refresh wins; partial responses are never merged. When err is non-nil
// the previous data is kept and the error recorded for visibility.
func (s *Store) Apply(scope Scope, records []pickup.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.sets[scope]
	if err != nil {
		ws.LastError = err
		ws.LastUpdated = time.Now()
		ws.ConsecutiveFailures++
		s.sets[scope] = ws
		return
	}

	ws.Records = cloneRecords(records)
	ws.HasData = true
	ws.LastError = nil
	ws.LastUpdated = time.Now()
	ws.ConsecutiveFailures = 0
	s.sets[scope] = ws
}

// Snapshot returns a copy of the scope's working set.
func (s *Store) Snapshot(scope Scope) WorkingSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws := s.sets[scope]
	snap := ws
	snap.Records = cloneRecords(ws.Records)
	if ws.LastError != nil {
		snap.LastError = fmt.Errorf("%w", ws.LastError)
	}
	return snap
}

// Get looks a record up by id within a scope.
func (s *Store) Get(scope Scope, id int64) (pickup.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.sets[scope].Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return pickup.Record{}, false
}

// Replace swaps a record in place by id, leaving order untouched.
// Records are keyed by id, never by slice position.
func (s *Store) Replace(scope Scope, rec pickup.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.sets[scope]
	for i := range ws.Records {
		if ws.Records[i].ID == rec.ID {
			ws.Records[i] = rec
			s.sets[scope] = ws
			return
		}
	}
}

// Remove drops a record from a scope's working set by id.
func (s *Store) Remove(scope Scope, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.sets[scope]
	kept := ws.Records[:0]
	for _, rec := range ws.Records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	ws.Records = kept
	s.sets[scope] = ws
}

// Append adds a record to the end of a scope's working set, replacing any
// existing record with the same id first.
func (s *Store) Append(scope Scope, rec pickup.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.sets[scope]
	kept := ws.Records[:0]
	for _, existing := range ws.Records {
		if existing.ID != rec.ID {
			kept = append(kept, existing)
		}
	}
	ws.Records = append(kept, rec)
	ws.HasData = true
	s.sets[scope] = ws
}

func cloneRecords(records []pickup.Record) []pickup.Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]pickup.Record, len(records))
	copy(dup, records)
	return dup
}
