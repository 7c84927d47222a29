package sync

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mealbridge/mealbridge/internal/pickup"
	"github.com/mealbridge/mealbridge/internal/pickupapi"
	"github.com/mealbridge/mealbridge/internal/state"
)

// StaleStateError means the backend rejected a transition because the
// record had already advanced under another actor. The working set is
// force-refreshed; retrying without the refresh would repeat the
// rejection.
type StaleStateError struct {
	ID     int64
	Status pickup.Status
	Action pickup.Action
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("record %d already advanced past %q; action %q rejected", e.ID, e.Status, e.Action)
}

// TransportError wraps a network failure or an unrelated non-2xx. The
// working set is left unchanged; the next poll retries naturally.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotAuthenticatedError means a scoped request has no user identity to
// run under. The caller should route to the auth flow.
type NotAuthenticatedError struct {
	Scope state.Scope
}

func (e *NotAuthenticatedError) Error() string {
	return fmt.Sprintf("scope %q requires a signed-in user", e.Scope)
}

// classifyFetch wraps a backend failure for a read operation.
func classifyFetch(scope state.Scope, op string, err error) error {
	var nerr *NotAuthenticatedError
	if errors.As(err, &nerr) {
		return err
	}
	var serr *pickupapi.StatusError
	if errors.As(err, &serr) && (serr.Code == http.StatusUnauthorized || serr.Code == http.StatusForbidden) {
		return &NotAuthenticatedError{Scope: scope}
	}
	return &TransportError{Op: op, Err: err}
}
