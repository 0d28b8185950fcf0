package phasetimer

import (
	"fmt"
	"time"
)

// Phase represents the current PhaseTimer mode.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFocus      Phase = "focus"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Label returns the human-readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseFocus:
		return "Focus"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Idle"
	}
}

// IsBreak reports whether phase is a short or long break.
func (phase Phase) IsBreak() bool {
	return phase == PhaseShortBreak || phase == PhaseLongBreak
}

// EventType defines the type of PhaseTimer event.
type EventType string

const (
	EventStarted        EventType = "started"
	EventPaused         EventType = "paused"
	EventResumed        EventType = "resumed"
	EventTick           EventType = "tick"
	EventPhaseComplete  EventType = "phase_complete"
	EventResetRequested EventType = "reset_requested"
	EventResetCancelled EventType = "reset_cancelled"
	EventReset          EventType = "reset"
	EventIdlePause      EventType = "idle_pause"
	EventConfigUpdated  EventType = "config_updated"
)

// Snapshot is the state handed to renderers.
type Snapshot struct {
	Phase                  Phase
	RemainingSeconds       int
	TotalSeconds           int
	Running                bool
	CompletedFocusSessions int
	ResetPending           bool
}

// Remaining returns RemainingSeconds as a duration.
func (snapshot Snapshot) Remaining() time.Duration {
	return time.Duration(snapshot.RemainingSeconds) * time.Second
}

// Clock formats the remaining time as mm:ss.
func (snapshot Snapshot) Clock() string {
	seconds := snapshot.RemainingSeconds
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Paused reports whether a phase is loaded but not counting down.
func (snapshot Snapshot) Paused() bool {
	return !snapshot.Running && snapshot.Phase != PhaseIdle
}

// Progress returns the elapsed fraction of the current phase in [0, 1].
func (snapshot Snapshot) Progress() float64 {
	if snapshot.TotalSeconds <= 0 || snapshot.Phase == PhaseIdle {
		return 0
	}
	progress := float64(snapshot.TotalSeconds-snapshot.RemainingSeconds) / float64(snapshot.TotalSeconds)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Event represents a PhaseTimer update for observers.
// For EventPhaseComplete, Snapshot already describes the next phase and
// Completed names the phase that just ended.
type Event struct {
	Type      EventType
	Snapshot  Snapshot
	Completed Phase
	Skipped   bool
	At        time.Time
}

// Controls lists which user commands apply to a snapshot.
type Controls struct {
	Start  bool
	Pause  bool
	Resume bool
	Skip   bool
	Reset  bool
}

// Controls returns the enabled commands: Start when idle, Pause while
// running, Resume while paused. Skip needs a loaded phase; Reset is always on.
func (snapshot Snapshot) Controls() Controls {
	idle := snapshot.Phase == PhaseIdle
	return Controls{
		Start:  idle,
		Pause:  snapshot.Running,
		Resume: snapshot.Paused(),
		Skip:   !idle,
		Reset:  true,
	}
}
