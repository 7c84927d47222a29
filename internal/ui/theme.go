package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string

	StatusColors map[string]string
}

// Harvest is the default palette.
var themeHarvest = Theme{
	Name:    "Harvest",
	Text:    "#e8e3d3",
	Muted:   "#8a8577",
	Accent:  "#d9a648",
	Success: "#7fb069",
	Warning: "#e0b354",
	Danger:  "#d06c5b",
	StatusColors: map[string]string{
		"Requested":         "#8a8577",
		"Accepted":          "#6699cc",
		"Person on the Way": "#e0b354",
		"Completed":         "#7fb069",
	},
}

var themeSlate = Theme{
	Name:    "Slate",
	Text:    "#d8dee9",
	Muted:   "#6b7489",
	Accent:  "#88c0d0",
	Success: "#a3be8c",
	Warning: "#ebcb8b",
	Danger:  "#bf616a",
	StatusColors: map[string]string{
		"Requested":         "#6b7489",
		"Accepted":          "#81a1c1",
		"Person on the Way": "#ebcb8b",
		"Completed":         "#a3be8c",
	},
}

// themeByName resolves a preference string, defaulting to Harvest.
func themeByName(name string) Theme {
	if name == themeSlate.Name {
		return themeSlate
	}
	return themeHarvest
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Title      lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Danger     lipgloss.Style
	TabActive  lipgloss.Style
	TabIdle    lipgloss.Style
	Selected   lipgloss.Style
	StatNumber lipgloss.Style
}

// Styles builds the style set for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		Text:       lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		TabActive:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true).Underline(true),
		TabIdle:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)).Bold(true),
		StatNumber: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
	}
}

// statusStyle returns a style for a lifecycle status badge.
func (t Theme) statusStyle(status string) lipgloss.Style {
	if color, ok := t.StatusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
}
