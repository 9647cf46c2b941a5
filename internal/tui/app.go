package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimpsehq/glimpse/internal/config"
	"github.com/glimpsehq/glimpse/internal/session"
)

// Run starts the session list UI and blocks until the user quits.
func Run(manager *session.Manager, cfg config.TUIConfig) error {
	p := tea.NewProgram(NewModel(manager, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
