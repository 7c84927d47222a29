package pickup

import (
	"errors"
	"testing"
)

func TestNextStatus_WalksTheFullLifecycle(t *testing.T) {
	want := []Status{StatusAccepted, StatusOnTheWay, StatusCompleted}

	current := StatusRequested
	for i, expected := range want {
		next, ok := NextStatus(current)
		if !ok {
			t.Fatalf("NextStatus(%q) not ok at step %d", current, i)
		}
		if next != expected {
			t.Fatalf("NextStatus(%q) = %q, want %q", current, next, expected)
		}
		current = next
	}

	// Terminal absorption: once Completed, NextStatus stays empty forever.
	for i := 0; i < 3; i++ {
		if next, ok := NextStatus(current); ok {
			t.Fatalf("NextStatus(%q) = %q, want terminal", current, next)
		}
	}
}

func TestActionFor_ExactlyOneEnabledAction(t *testing.T) {
	cases := []struct {
		status  Status
		enabled Action
	}{
		{StatusRequested, ActionAccept},
		{StatusAccepted, ActionComing},
		{StatusOnTheWay, ActionCompleted},
	}

	for _, tc := range cases {
		enabledCount := 0
		for _, action := range Actions {
			if CanApply(tc.status, action) {
				enabledCount++
				if action != tc.enabled {
					t.Errorf("CanApply(%q, %q) = true, want only %q enabled", tc.status, action, tc.enabled)
				}
			}
		}
		if enabledCount != 1 {
			t.Errorf("status %q has %d enabled actions, want 1", tc.status, enabledCount)
		}
	}

	for _, action := range Actions {
		if CanApply(StatusCompleted, action) {
			t.Errorf("CanApply(Completed, %q) = true, want no enabled actions", action)
		}
	}
}

func TestApply_RejectsWrongActionWithoutMutating(t *testing.T) {
	got, err := Apply(StatusRequested, ActionCompleted)
	if err == nil {
		t.Fatal("Apply(Requested, Completed) returned nil error, want ValidationError")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}
	if verr.Status != StatusRequested || verr.Action != ActionCompleted {
		t.Fatalf("ValidationError = %+v, want status/action recorded", verr)
	}
	if got != StatusRequested {
		t.Fatalf("Apply returned status %q, want unchanged %q", got, StatusRequested)
	}
}

func TestApply_NoSkippingStates(t *testing.T) {
	// Requested can never jump straight to Completed.
	if _, err := Apply(StatusRequested, ActionCompleted); err == nil {
		t.Fatal("Requested -> Completed allowed, want rejection")
	}
	if _, err := Apply(StatusAccepted, ActionCompleted); err == nil {
		t.Fatal("Accepted -> Completed allowed, want rejection")
	}
}

func TestApply_EmptyStatusReadsAsRequested(t *testing.T) {
	next, err := Apply("", ActionAccept)
	if err != nil {
		t.Fatalf("Apply(\"\", Accept) returned error: %v", err)
	}
	if next != StatusAccepted {
		t.Fatalf("Apply(\"\", Accept) = %q, want %q", next, StatusAccepted)
	}
}

func TestActionHint_MessagesPerAction(t *testing.T) {
	if hint := ActionHint(StatusRequested, ActionAccept); hint != "" {
		t.Fatalf("hint for enabled action = %q, want empty", hint)
	}
	if hint := ActionHint(StatusCompleted, ActionAccept); hint != "Order is already completed." {
		t.Fatalf("terminal hint = %q", hint)
	}
	if hint := ActionHint(StatusRequested, ActionComing); hint != "Accept the order before marking as coming." {
		t.Fatalf("coming hint = %q", hint)
	}
	if hint := ActionHint(StatusRequested, ActionCompleted); hint != "Mark as 'Coming' before completing." {
		t.Fatalf("completed hint = %q", hint)
	}
}

func TestProgress_Monotonic(t *testing.T) {
	order := []Status{StatusRequested, StatusAccepted, StatusOnTheWay, StatusCompleted}
	last := -1.0
	for _, s := range order {
		p := Progress(s)
		if p <= last {
			t.Fatalf("Progress(%q) = %v, want > %v", s, p, last)
		}
		last = p
	}
	if Progress(StatusCompleted) != 1.0 {
		t.Fatalf("Progress(Completed) = %v, want 1.0", Progress(StatusCompleted))
	}
}
