// Package terminal renders the timer as a Bubble Tea program.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"focusforge/internal/app"
	"focusforge/internal/core/phasetimer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

const (
	maxLogLines      = 8
	defaultBarWidth  = 40
	maxBarWidth      = 60
	horizontalMargin = 4
)

// eventMsg carries one timer event into the update loop.
type eventMsg phasetimer.Event

// closedMsg reports that the timer stopped publishing events.
type closedMsg struct{}

// Model is the Bubble Tea model for the timer.
type Model struct {
	app      *app.App
	events   <-chan phasetimer.Event
	snapshot phasetimer.Snapshot

	keys     KeyMap
	help     help.Model
	progress progress.Model

	intent     phasetimer.ResetIntent
	confirming bool
	bell       io.Writer
	quitting   bool
}

// New creates a model bound to application. bell receives a BEL character
// on phase completion when sound is enabled; nil disables it.
func New(application *app.App, bell io.Writer) Model {
	bar := progress.New(progress.WithSolidFill(string(phaseColor(phasetimer.PhaseFocus))), progress.WithoutPercentage())
	bar.Width = defaultBarWidth

	m := Model{
		app:      application,
		events:   application.Timer.Subscribe(16),
		snapshot: application.Timer.Snapshot(),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: bar,
		bell:     bell,
	}
	m.keys.apply(m.snapshot.Controls())
	return m
}

// Init starts listening for timer events.
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan phasetimer.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(event)
	}
}

// Update handles keys and timer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)

	case eventMsg:
		event := phasetimer.Event(msg)
		m.setSnapshot(event.Snapshot)
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if event.Type == phasetimer.EventPhaseComplete {
			cmds = append(cmds, m.ring())
		}
		return m, tea.Batch(cmds...)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		width := msg.Width - horizontalMargin*2
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width < 10 {
			width = 10
		}
		m.progress.Width = width
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	timer := m.app.Timer
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		timer.Start()
	case key.Matches(msg, m.keys.Pause):
		if m.snapshot.Running {
			timer.Pause()
		} else {
			timer.Resume()
		}
	case key.Matches(msg, m.keys.Skip):
		timer.Skip()
	case key.Matches(msg, m.keys.Reset):
		m.intent = timer.RequestReset()
		m.confirming = true
	default:
		return m, nil
	}
	m.setSnapshot(timer.Snapshot())
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	timer := m.app.Timer
	var err error
	switch {
	case key.Matches(msg, m.keys.Yes):
		err = timer.ConfirmReset(m.intent)
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Escape):
		err = timer.CancelReset(m.intent)
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	default:
		return m, nil
	}
	if err != nil {
		log.Warn().Err(err).Msg("resolve reset request")
	}
	m.confirming = false
	m.setSnapshot(timer.Snapshot())
	return m, nil
}

func (m *Model) setSnapshot(snapshot phasetimer.Snapshot) {
	if snapshot.Phase != m.snapshot.Phase {
		m.progress.FullColor = string(phaseColor(snapshot.Phase))
	}
	m.snapshot = snapshot
	m.keys.apply(snapshot.Controls())
}

func (m Model) ring() tea.Cmd {
	if m.bell == nil || !m.app.Settings().Sound {
		return nil
	}
	bell := m.bell
	return func() tea.Msg {
		if _, err := io.WriteString(bell, "\a"); err != nil {
			log.Debug().Err(err).Msg("ring terminal bell")
		}
		return nil
	}
}

// View renders the timer screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snapshot := m.snapshot
	color := phaseColor(snapshot.Phase)

	var b strings.Builder
	b.WriteString(titleStyle.Render(app.Name))
	b.WriteString("\n")

	phase := lipgloss.NewStyle().Foreground(color).Bold(true).Render(snapshot.Phase.Label())
	if snapshot.Paused() {
		phase += "  " + pausedStyle.Render("paused")
	}
	b.WriteString(phase + "\n")
	b.WriteString(clockStyle.Foreground(color).Render(snapshot.Clock()) + "\n")
	b.WriteString(m.progress.ViewAs(snapshot.Progress()) + "\n\n")

	b.WriteString(labelStyle.Render("Completed focus sessions today: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", snapshot.CompletedFocusSessions)))
	b.WriteString("\n\n")

	if lines := m.logLines(); len(lines) > 0 {
		b.WriteString(logBoxStyle.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	if m.confirming {
		b.WriteString(confirmStyle.Render("Reset timer and session count? (y/n)"))
		b.WriteString("\n")
		b.WriteString(m.help.View(confirmKeys{keys: m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) logLines() []string {
	entries := m.app.Activity.Entries()
	if len(entries) > maxLogLines {
		entries = entries[:maxLogLines]
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, logLineStyle.Render(entry.String()))
	}
	return lines
}
