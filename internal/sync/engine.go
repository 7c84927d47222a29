// Package sync reconciles server-authoritative record lists with the
// local shadow store under a pure polling model. It is the only path
// through which views read or mutate pickup state.
package sync

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/pickupapi"
	"github.com/mealbridge/mealbridge/internal/shadow"
	"github.com/mealbridge/mealbridge/internal/state"
	"github.com/mealbridge/mealbridge/internal/stats"
)

// Engine keeps each scope's working set consistent with the backend,
// deduplicated against the shadow store. All mutations flow through it.
type Engine struct {
	client pickupapi.Store
	shadow *shadow.Store
	store  *state.Store
	bus    *Broadcaster
	userID string
	closed atomic.Bool
}

// NewEngine wires the engine to its collaborators. userID may be empty
// for a signed-out session; scoped refreshes then fail with
// NotAuthenticatedError until identity arrives.
func NewEngine(client pickupapi.Store, shadowStore *shadow.Store, store *state.Store, bus *Broadcaster, userID string) *Engine {
	return &Engine{
		client: client,
		shadow: shadowStore,
		store:  store,
		bus:    bus,
		userID: userID,
	}
}

// Store exposes the working-set store for views to snapshot.
func (e *Engine) Store() *state.Store { return e.store }

// Shadow exposes the local shadow store.
func (e *Engine) Shadow() *shadow.Store { return e.shadow }

// Events exposes the cross-view broadcaster.
func (e *Engine) Events() *Broadcaster { return e.bus }

// Close marks the engine stopped. Responses resolving after Close are
// discarded rather than applied to any view's state.
func (e *Engine) Close() { e.closed.Store(true) }

// Refresh fetches the authoritative list for a scope, drops any record
// already consumed through the direct-donation path, and replaces the
// scope's working set. Order follows the server response; the engine
// never re-sorts. Repeated calls with no intervening mutation return an
// equivalent set.
func (e *Engine) Refresh(ctx context.Context, scope state.Scope) ([]pickup.Record, error) {
	records, err := e.fetch(ctx, scope)
	if err != nil {
		classified := classifyFetch(scope, "refresh "+string(scope), err)
		if !e.closed.Load() {
			e.store.Apply(scope, nil, classified)
		}
		return nil, classified
	}

	records = e.dropDonated(records)
	if e.closed.Load() {
		// Engine stopped while the request was in flight.
		return records, nil
	}
	e.store.Apply(scope, records, nil)
	e.cacheCount(scope, len(records))
	return records, nil
}

func (e *Engine) fetch(ctx context.Context, scope state.Scope) ([]pickup.Record, error) {
	switch scope {
	case state.ScopeAvailable:
		return e.client.FetchAvailable(ctx)
	case state.ScopeCompleted:
		return e.client.FetchCompleted(ctx)
	case state.ScopeOwned:
		if e.userID == "" {
			return nil, &NotAuthenticatedError{Scope: scope}
		}
		return e.client.FetchOwned(ctx, e.userID)
	case state.ScopePending:
		if e.userID == "" {
			return nil, &NotAuthenticatedError{Scope: scope}
		}
		return e.client.FetchPending(ctx, e.userID)
	case state.ScopeCart:
		if e.userID == "" {
			return nil, &NotAuthenticatedError{Scope: scope}
		}
		return e.client.FetchCart(ctx, e.userID)
	}
	return nil, &TransportError{Op: "refresh", Err: errors.New("unknown scope " + string(scope))}
}

func (e *Engine) dropDonated(records []pickup.Record) []pickup.Record {
	if e.shadow == nil || len(records) == 0 {
		return records
	}
	kept := records[:0]
	for _, rec := range records {
		if !e.shadow.Contains(rec.ID) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func (e *Engine) cacheCount(scope state.Scope, n int) {
	if e.shadow == nil {
		return
	}
	switch scope {
	case state.ScopeCompleted:
		if err := e.shadow.SetCounter(shadow.CounterDiscoveryCards, n); err != nil {
			log.Printf("cache discovery count: %v", err)
		}
	case state.ScopeAvailable:
		if err := e.shadow.SetCounter(shadow.CounterPickupCards, n); err != nil {
			log.Printf("cache pickup count: %v", err)
		}
	}
}

// ApplyFilter returns the records matching keep, in their original order.
// The source slice is never mutated; views re-run this on every keystroke.
func ApplyFilter(records []pickup.Record, keep func(pickup.Record) bool) []pickup.Record {
	var out []pickup.Record
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ByLocation matches records whose location contains the query,
// case-insensitively. An empty query matches everything.
func ByLocation(query string) func(pickup.Record) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(rec pickup.Record) bool {
		if q == "" {
			return true
		}
		return strings.Contains(strings.ToLower(rec.Location), q)
	}
}

// CommitTransition validates the action against the state machine, asks
// the backend to persist it, and reconciles the working set. Non-terminal
// transitions update the record in place; the terminal transition removes
// it from the active scope and archives it into the completed projection.
// On any failure the working set is left unchanged and the prior record
// returned.
func (e *Engine) CommitTransition(ctx context.Context, scope state.Scope, rec pickup.Record, action pickup.Action) (pickup.Record, error) {
	next, err := pickup.Apply(rec.CurrentStatus(), action)
	if err != nil {
		// Rejected locally, before any network call.
		return rec, err
	}

	updated, err := e.client.UpdateStatus(ctx, rec.ID, next)
	if err != nil {
		var serr *pickupapi.StatusError
		if errors.As(err, &serr) && serr.IsConflict() {
			// Another actor advanced the record first. Resync so the view
			// shows the server's truth instead of our stale assumption.
			if _, rerr := e.Refresh(ctx, scope); rerr != nil {
				log.Printf("forced refresh after stale transition: %v", rerr)
			}
			return rec, &StaleStateError{ID: rec.ID, Status: rec.CurrentStatus(), Action: action}
		}
		return rec, &TransportError{Op: "commit transition", Err: err}
	}

	if updated.ID == 0 {
		// Backend acknowledged without a body; trust our own view of it.
		updated = rec
		updated.Status = next
	}

	if e.closed.Load() {
		return updated, nil
	}

	if pickup.IsTerminal(updated.Status) {
		if updated.CompletedDate == "" {
			updated.CompletedDate = time.Now().UTC().Format("2006-01-02")
		}
		e.store.Remove(scope, rec.ID)
		e.store.Append(state.ScopeCompleted, updated)
		e.bus.Publish(Event{Type: EventCompleted, ID: rec.ID})
	} else {
		e.store.Replace(scope, updated)
	}
	return updated, nil
}

// SubmitFood validates a new listing locally, then adds it to the donor's
// cart. Validation failures never reach the network.
func (e *Engine) SubmitFood(ctx context.Context, rec pickup.Record) (pickup.Record, error) {
	if e.userID == "" {
		return rec, &NotAuthenticatedError{Scope: state.ScopeCart}
	}
	if err := pickup.ValidateSubmission(rec, time.Now()); err != nil {
		return rec, err
	}
	rec.OwnerID = e.userID

	created, err := e.client.AddFood(ctx, rec)
	if err != nil {
		return rec, &TransportError{Op: "add food", Err: err}
	}
	if created.ID == 0 {
		created = rec
	}
	if !e.closed.Load() {
		e.store.Append(state.ScopeCart, created)
	}
	return created, nil
}

// RemoveFromCart deletes a drafted listing from the cart.
func (e *Engine) RemoveFromCart(ctx context.Context, id int64) error {
	if err := e.client.DeleteFood(ctx, id); err != nil {
		return &TransportError{Op: "delete food", Err: err}
	}
	if !e.closed.Load() {
		e.store.Remove(state.ScopeCart, id)
	}
	return nil
}

// RequestPickup moves a cart item into the pickup workflow: the backend
// re-lists it at Requested, so locally it leaves the cart and joins the
// donor's pending set.
func (e *Engine) RequestPickup(ctx context.Context, rec pickup.Record) error {
	if err := e.client.RequestPickup(ctx, rec.ID); err != nil {
		return &TransportError{Op: "request pickup", Err: err}
	}
	if e.closed.Load() {
		return nil
	}
	rec.Status = pickup.StatusRequested
	e.store.Remove(state.ScopeCart, rec.ID)
	e.store.Append(state.ScopePending, rec)
	return nil
}

// RecordDirectDonation marks a record as exchanged outside the pickup
// workflow. Purely local: the id joins the shadow store, the record
// leaves the active working set, and subscribers are woken so stats
// recompute. There is no server counterpart.
func (e *Engine) RecordDirectDonation(scope state.Scope, rec pickup.Record) error {
	if err := e.shadow.AddDonation(rec, time.Now()); err != nil {
		return err
	}
	e.store.Remove(scope, rec.ID)
	e.cacheCount(scope, len(e.store.Snapshot(scope).Records))
	e.bus.Publish(Event{Type: EventDonated, ID: rec.ID})
	return nil
}

// ComputeStats projects the impact metrics from the current working sets
// and the donated history. Total recompute on every call.
func (e *Engine) ComputeStats() stats.Snapshot {
	completed := e.store.Snapshot(state.ScopeCompleted).Records
	pending := e.store.Snapshot(state.ScopePending).Records
	return stats.Compute(completed, pending, e.shadow.History())
}
