package terminal

import (
	"fmt"
	"os"

	"focusforge/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// Run blocks until the user quits the terminal UI.
func Run(application *app.App) error {
	program := tea.NewProgram(New(application, os.Stdout), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
