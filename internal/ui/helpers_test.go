package ui

import (
	"strings"
	"testing"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

func TestRenderProgressBarClamps(t *testing.T) {
	theme := themeHarvest

	full := renderProgressBar(1.5, 10, theme)
	if !strings.Contains(full, "100%") {
		t.Errorf("fraction above 1 should render as 100%%, got %q", full)
	}

	empty := renderProgressBar(-0.5, 10, theme)
	if !strings.Contains(empty, "  0%") {
		t.Errorf("negative fraction should render as 0%%, got %q", empty)
	}
}

func TestRenderProgressBarLifecycle(t *testing.T) {
	// Each status should render a strictly larger percentage than the
	// one before it.
	statuses := []pickup.Status{
		pickup.StatusRequested,
		pickup.StatusAccepted,
		pickup.StatusOnTheWay,
		pickup.StatusCompleted,
	}
	prev := -1.0
	for _, s := range statuses {
		p := pickup.Progress(s)
		if p <= prev {
			t.Errorf("Progress(%q) = %v, want > %v", s, p, prev)
		}
		prev = p
	}
}

func TestFormatQuantity(t *testing.T) {
	rec := pickup.Record{Quantity: pickup.QuantityOf(5), QuantityType: pickup.QuantityKg}
	if got := formatQuantity(rec); got != "5 kg" {
		t.Errorf("formatQuantity = %q, want %q", got, "5 kg")
	}

	rec = pickup.Record{Quantity: pickup.QuantityOf(2)}
	if got := formatQuantity(rec); got != "2 units" {
		t.Errorf("formatQuantity with empty type = %q, want %q", got, "2 units")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should leave short strings alone, got %q", got)
	}
	if got := truncate("a longer string", 8); got != "a longe…" {
		t.Errorf("truncate = %q, want %q", got, "a longe…")
	}
}
