// Package tui implements the interactive daemon console for Tidewave.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the console. refresh, when non-nil, is invoked on the
// force-update key; it should trigger a forced presence cycle.
func Run(refresh func()) error {
	model := NewModel(refresh)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
