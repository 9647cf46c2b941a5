// Package tui renders the session list: one row per monitored agent with
// its detection mark, display state, and last action summary.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimpsehq/glimpse/internal/config"
	"github.com/glimpsehq/glimpse/internal/event"
	"github.com/glimpsehq/glimpse/internal/session"
	"github.com/glimpsehq/glimpse/internal/util"
)

// eventBuffer is the adapter channel depth. The bus delivers synchronously,
// so the handler must never block; overflow drops events and the next tick
// repaints from session state anyway.
const eventBuffer = 64

// Model is the bubbletea model for the session list.
type Model struct {
	manager *session.Manager
	cfg     config.TUIConfig
	spin    spinner.Model
	events  chan event.Event
	subID   uint64

	selected int
	width    int
	height   int
	quitting bool
}

// NewModel builds the model and subscribes it to the manager's bus.
func NewModel(manager *session.Manager, cfg config.TUIConfig) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	events := make(chan event.Event, eventBuffer)
	subID := manager.Bus().Subscribe("*", func(ev event.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	return Model{
		manager: manager,
		cfg:     cfg,
		spin:    sp,
		events:  events,
		subID:   subID,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, tick(), waitForEvent(m.events))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.clampSelection()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case busEventMsg:
		return m.handleEvent(msg.ev)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.manager.Bus().Unsubscribe(m.subID)
		return m, tea.Quit

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.manager.List())-1 {
			m.selected++
		}

	case "r":
		if sess := m.selectedSession(); sess != nil {
			sess.Reset()
		}

	case "x":
		if sess := m.selectedSession(); sess != nil {
			m.manager.Remove(sess.ID())
			m.clampSelection()
		}
	}
	return m, nil
}

func (m Model) handleEvent(ev event.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.events)}
	if m.cfg.BellOnIdle && ev.EventType() == event.TypeSessionIdle {
		cmds = append(cmds, ringBell())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) clampSelection() {
	if n := len(m.manager.List()); m.selected >= n && n > 0 {
		m.selected = n - 1
	} else if n == 0 {
		m.selected = 0
	}
}

func (m Model) selectedSession() *session.Session {
	list := m.manager.List()
	if m.selected < 0 || m.selected >= len(list) {
		return nil
	}
	return list[m.selected]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("glimpse"))
	b.WriteString("\n")

	sessions := m.manager.List()
	if len(sessions) == 0 {
		b.WriteString(mutedStyle.Render("no sessions"))
	} else {
		rows := make([]string, 0, len(sessions))
		for i, sess := range sessions {
			rows = append(rows, m.renderRow(sess, i == m.selected))
		}
		b.WriteString(listBoxStyle.Render(strings.Join(rows, "\n")))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("↑/↓ select · r reset · x close · q quit"))
	return b.String()
}

// renderRow draws one session line: cursor, state glyph, short id,
// detection mark, agent command, state label, and the last action message.
func (m Model) renderRow(sess *session.Session, selected bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	shortID := sess.ID()
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}

	mark := mutedStyle.Render("·")
	if sess.Detected() {
		mark = workingStyle.Render("✓")
	}

	row := fmt.Sprintf("%s%s %s %s %-20s %s",
		cursor, m.stateGlyph(sess.State()), shortID, mark,
		util.Truncate(sess.Command(), 20), m.stateLabel(sess.State()))

	if m.cfg.ShowMessages {
		if msg := sess.LastMessage(); msg != "" {
			row += "  " + mutedStyle.Render(util.TruncateANSI(msg, m.cfg.MessageWidth))
		}
	}

	if selected {
		return selectedStyle.Render(row)
	}
	return row
}

func (m Model) stateGlyph(state session.DisplayState) string {
	switch state {
	case session.StateWorking:
		return m.spin.View()
	case session.StateIdle:
		return idleStyle.Render("●")
	case session.StateWaiting:
		return waitingStyle.Render("◌")
	case session.StateError:
		return errorStyle.Render("✖")
	default:
		return mutedStyle.Render("○")
	}
}

func (m Model) stateLabel(state session.DisplayState) string {
	label := state.String()
	switch state {
	case session.StateWorking:
		return workingStyle.Render(label)
	case session.StateIdle:
		return idleStyle.Render(label)
	case session.StateWaiting:
		return waitingStyle.Render(label)
	case session.StateError:
		return errorStyle.Render(label)
	default:
		return mutedStyle.Render(label)
	}
}
