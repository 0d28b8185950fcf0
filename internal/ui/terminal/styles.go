package terminal

import (
	"focusforge/internal/core/phasetimer"

	"github.com/charmbracelet/lipgloss"
)

var phaseColors = map[phasetimer.Phase]lipgloss.Color{
	phasetimer.PhaseIdle:       lipgloss.Color("#e74c3c"),
	phasetimer.PhaseFocus:      lipgloss.Color("#e74c3c"),
	phasetimer.PhaseShortBreak: lipgloss.Color("#2980b9"),
	phasetimer.PhaseLongBreak:  lipgloss.Color("#27ae60"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	logLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func phaseColor(phase phasetimer.Phase) lipgloss.Color {
	if color, ok := phaseColors[phase]; ok {
		return color
	}
	return lipgloss.Color("255")
}
