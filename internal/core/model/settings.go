package model

import (
	"errors"
	"time"
)

// ErrIdlePauseAfter is returned when the away time is not a whole number of minutes.
var ErrIdlePauseAfter = errors.New("away time must be a whole number of minutes, at least 1")

// Settings defines editable user preferences.
type Settings struct {
	Timer Config

	Notifications  bool
	Sound          bool
	IdlePause      bool
	IdlePauseAfter time.Duration
	LaunchAtLogin  bool
}

// DefaultSettings returns default settings for FocusForge.
func DefaultSettings() Settings {
	return Settings{
		Timer:          DefaultConfig(),
		Notifications:  true,
		Sound:          true,
		IdlePause:      false,
		IdlePauseAfter: 5 * time.Minute,
		LaunchAtLogin:  false,
	}
}

// Validate checks the timer configuration and the away time. The away time
// is stored in minutes, so it must be a whole positive number of them.
func (settings Settings) Validate() error {
	if err := settings.Timer.Validate(); err != nil {
		return err
	}
	if settings.IdlePauseAfter < time.Minute || settings.IdlePauseAfter%time.Minute != 0 {
		return ErrIdlePauseAfter
	}
	return nil
}
