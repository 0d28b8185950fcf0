package phasetimer

import "focusforge/internal/core/model"

// Advance applies the phase transition rule.
// Completing a focus phase increments the session count; the post-increment
// count decides between a long and a short break.
func Advance(phase Phase, completed int, config model.Config) (Phase, int) {
	if phase != PhaseFocus {
		return PhaseFocus, completed
	}
	completed++
	if config.SessionsBeforeLongBreak > 0 && completed%config.SessionsBeforeLongBreak == 0 {
		return PhaseLongBreak, completed
	}
	return PhaseShortBreak, completed
}

// DurationSeconds returns the full length of phase under config.
// Idle reports the upcoming focus length.
func DurationSeconds(phase Phase, config model.Config) int {
	switch phase {
	case PhaseShortBreak:
		return config.ShortBreakMinutes * 60
	case PhaseLongBreak:
		return config.LongBreakMinutes * 60
	default:
		return config.FocusMinutes * 60
	}
}
