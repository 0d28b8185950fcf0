package terminal

import (
	"focusforge/internal/core/phasetimer"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the terminal UI keybindings.
type KeyMap struct {
	Start  key.Binding
	Pause  key.Binding
	Skip   key.Binding
	Reset  key.Binding
	Quit   key.Binding
	Yes    key.Binding
	No     key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause/resume"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm reset"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "keep going"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
		),
	}
}

// apply enables the bindings allowed by controls.
func (keys *KeyMap) apply(controls phasetimer.Controls) {
	keys.Start.SetEnabled(controls.Start)
	keys.Pause.SetEnabled(controls.Pause || controls.Resume)
	if controls.Resume {
		keys.Pause.SetHelp("p", "resume")
	} else {
		keys.Pause.SetHelp("p", "pause")
	}
	keys.Skip.SetEnabled(controls.Skip)
	keys.Reset.SetEnabled(controls.Reset)
}

// ShortHelp implements help.KeyMap.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Start, keys.Pause, keys.Skip, keys.Reset, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp()}
}

type confirmKeys struct {
	keys KeyMap
}

func (c confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.keys.Yes, c.keys.No}
}

func (c confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}
