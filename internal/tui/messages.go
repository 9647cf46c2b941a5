package tui

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimpsehq/glimpse/internal/event"
)

// tickMsg drives the periodic refresh of session rows.
type tickMsg time.Time

// busEventMsg carries one session event into the update loop.
type busEventMsg struct {
	ev event.Event
}

// tick returns a command that sends a tickMsg after a short delay. State
// accessors are cheap, so polling keeps rows fresh even when no event
// fires (elapsed times, late message updates).
func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForEvent blocks on the bus adapter channel and resolves to the next
// busEventMsg. Re-issued from Update after every delivery.
func waitForEvent(ch <-chan event.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{ev: ev}
	}
}

// ringBell writes a bell to the parent terminal. Works in alt-screen mode
// because it bypasses the renderer.
func ringBell() tea.Cmd {
	return func() tea.Msg {
		_, _ = os.Stdout.Write([]byte{'\a'})
		return nil
	}
}
