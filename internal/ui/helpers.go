package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

// renderProgressBar draws a fixed-width bar for a completion fraction.
// Fractions outside [0, 1] are clamped.
func renderProgressBar(fraction float64, width int, theme Theme) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	color := theme.Warning
	if fraction >= 1 {
		color = theme.Success
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3.0f%%", bar, fraction*100)
}

func formatQuantity(rec pickup.Record) string {
	qt := string(rec.QuantityType)
	if qt == "" {
		qt = "units"
	}
	return fmt.Sprintf("%d %s", rec.Quantity.Value(), qt)
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
