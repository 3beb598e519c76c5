package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meur/moviedeck/internal/collection"
)

// Run shows the interactive movie deck until the user quits or ctx ends.
func Run(ctx context.Context, c *collection.Controller) error {
	states, unsubscribe := c.Subscribe()
	defer unsubscribe()

	m := newModel(ctx, c, states)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
