// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program that hosts the clock
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and blocks until the user quits
func Run(config Config) error {
	p := tea.NewProgram(NewModel(config), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
