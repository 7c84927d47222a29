// Package ui implements the terminal interface: a tabbed bubbletea
// program over the sync engine's working sets.
package ui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal UI and blocks until the user quits or the
// context is cancelled. Cancellation is a clean shutdown, not an error.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
