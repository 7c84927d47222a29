// Package shadow persists client-only donation facts. Entries here never
// touch the server: they record direct exchanges made outside the pickup
// workflow, plus cached display counters.
// State is stored in ~/.local/share/mealbridge/state.json.
package shadow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

const defaultStatePath = "~/.local/share/mealbridge/state.json"

// Counter keys the views keep warm between polls.
const (
	CounterDiscoveryCards = "findFoodCardCount"
	CounterPickupCards    = "pickupCardCount"
)

// Entry is a donation completed entirely on the client. Entries are
// written once and never mutated.
type Entry struct {
	pickup.Record
	DonatedDate string `json:"donatedDate"`
}

type fileData struct {
	DonatedIDs     []int64        `json:"donatedIds"`
	DonatedHistory []Entry        `json:"donatedHistory"`
	Counters       map[string]int `json:"counters,omitempty"`
}

// Store owns the persisted collection. Every mutation is a full
// read-modify-write of the file, serialized by the store's lock; callers
// never interleave two writes.
type Store struct {
	mu   sync.Mutex
	path string
	data fileData
}

// DefaultPath returns the default state file path.
func DefaultPath() string {
	return defaultStatePath
}

// Open loads the store from path, treating a missing or unreadable file
// as empty defaults. An absent key is an empty value, never an error.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve state path: %w", err)
	}

	s := &Store{path: resolved}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, nil // Graceful degradation
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return &Store{path: resolved}, nil // Graceful degradation
	}
	return s, nil
}

// Contains reports whether the record id has been directly donated.
func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, known := range s.data.DonatedIDs {
		if known == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the donated record ids.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data.DonatedIDs) == 0 {
		return nil
	}
	dup := make([]int64, len(s.data.DonatedIDs))
	copy(dup, s.data.DonatedIDs)
	return dup
}

// History returns a copy of the donated history, oldest first.
func (s *Store) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data.DonatedHistory) == 0 {
		return nil
	}
	dup := make([]Entry, len(s.data.DonatedHistory))
	copy(dup, s.data.DonatedHistory)
	return dup
}

// AddDonation records a direct donation: the id joins the exclusion set
// and the record is archived into history with its donated date. Adding
// the same id twice is a no-op.
func (s *Store) AddDonation(rec pickup.Record, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, known := range s.data.DonatedIDs {
		if known == rec.ID {
			return nil
		}
	}
	s.data.DonatedIDs = append(s.data.DonatedIDs, rec.ID)
	s.data.DonatedHistory = append(s.data.DonatedHistory, Entry{
		Record:      rec,
		DonatedDate: at.UTC().Format(time.RFC3339),
	})
	return s.persist()
}

// Counter returns a cached display counter, zero when absent.
func (s *Store) Counter(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Counters[name]
}

// SetCounter persists a cached display counter.
func (s *Store) SetCounter(name string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Counters == nil {
		s.data.Counters = make(map[string]int)
	}
	s.data.Counters[name] = value
	return s.persist()
}

// persist writes the whole collection back to disk. Callers hold s.mu.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultStatePath)
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
