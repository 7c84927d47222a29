package pickup

import "fmt"

// Status is a point in the pickup lifecycle. Transitions only ever move
// forward; Completed is terminal.
type Status string

const (
	StatusRequested Status = "Requested"
	StatusAccepted  Status = "Accepted"
	StatusOnTheWay  Status = "Person on the Way"
	StatusCompleted Status = "Completed"
)

// Action is the single operation a receiver may apply at a given status.
type Action string

const (
	ActionAccept    Action = "Accept"
	ActionComing    Action = "Coming"
	ActionCompleted Action = "Completed"
)

// Actions lists the workflow buttons in display order.
var Actions = []Action{ActionAccept, ActionComing, ActionCompleted}

type transition struct {
	next   Status
	action Action
}

// workflow is the single authoritative transition table. Every view gates
// its buttons and its transition calls through this map; no copies.
var workflow = map[Status]transition{
	StatusRequested: {next: StatusAccepted, action: ActionAccept},
	StatusAccepted:  {next: StatusOnTheWay, action: ActionComing},
	StatusOnTheWay:  {next: StatusCompleted, action: ActionCompleted},
	StatusCompleted: {},
}

// Normalize maps an empty status to Requested; backends serve freshly
// claimed records with the field unset.
func Normalize(s Status) Status {
	if s == "" {
		return StatusRequested
	}
	return s
}

// Known reports whether s is one of the lifecycle statuses.
func Known(s Status) bool {
	_, ok := workflow[Normalize(s)]
	return ok
}

// IsTerminal reports whether no further transition is legal.
func IsTerminal(s Status) bool {
	return Normalize(s) == StatusCompleted
}

// NextStatus returns the single legal next status. ok is false when the
// status is terminal.
func NextStatus(s Status) (Status, bool) {
	tr, known := workflow[Normalize(s)]
	if !known || tr.next == "" {
		return "", false
	}
	return tr.next, true
}

// ActionFor returns the one enabled action at this status. ok is false
// for the terminal status.
func ActionFor(s Status) (Action, bool) {
	tr, known := workflow[Normalize(s)]
	if !known || tr.action == "" {
		return "", false
	}
	return tr.action, true
}

// CanApply reports whether action is the enabled action for status. This
// backs both UI button gating and the transition call itself; a disabled
// button is never the only guard.
func CanApply(s Status, action Action) bool {
	enabled, ok := ActionFor(s)
	return ok && enabled == action
}

// Apply validates and performs a transition, returning the next status.
// A mismatched action fails with a ValidationError and changes nothing.
func Apply(s Status, action Action) (Status, error) {
	current := Normalize(s)
	if !CanApply(current, action) {
		return current, &ValidationError{Status: current, Action: action, Reason: ActionHint(current, action)}
	}
	next, _ := NextStatus(current)
	return next, nil
}

// Progress returns the tracker bar fraction shown for a status.
func Progress(s Status) float64 {
	switch Normalize(s) {
	case StatusRequested:
		return 0.10
	case StatusAccepted:
		return 0.3333
	case StatusOnTheWay:
		return 0.6666
	case StatusCompleted:
		return 1.0
	}
	return 0
}

// ActionHint explains why an action is unavailable at the given status.
// Returns "" when the action is the enabled one.
func ActionHint(s Status, action Action) string {
	current := Normalize(s)
	if CanApply(current, action) {
		return ""
	}
	if IsTerminal(current) {
		return "Order is already completed."
	}
	switch action {
	case ActionAccept:
		return "Order must be accepted first."
	case ActionComing:
		return "Accept the order before marking as coming."
	case ActionCompleted:
		return "Mark as 'Coming' before completing."
	}
	return "Action not available."
}

// ValidationError is a local, pre-network rejection: an illegal transition
// or a malformed field. It is never retried automatically.
type ValidationError struct {
	Field  string
	Status Status
	Action Action
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid transition: action %q not allowed at status %q: %s", e.Action, e.Status, e.Reason)
}
