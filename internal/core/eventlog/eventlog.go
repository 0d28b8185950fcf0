// Package eventlog keeps a short, newest-first history of timer activity.
package eventlog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"focusforge/internal/core/phasetimer"
)

// DefaultCapacity matches the number of entries shown in the activity list.
const DefaultCapacity = 30

// Entry is a single activity line.
type Entry struct {
	At      time.Time
	Message string
}

// String formats the entry as "[15:04:05] message".
func (entry Entry) String() string {
	return fmt.Sprintf("[%s] %s", entry.At.Format("15:04:05"), entry.Message)
}

// Log is a bounded list of entries safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
	onChange func()
}

// New creates a log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// SetOnChange registers a callback fired after every Add.
func (activity *Log) SetOnChange(handler func()) {
	activity.mu.Lock()
	defer activity.mu.Unlock()
	activity.onChange = handler
}

// Add prepends an entry and drops the oldest beyond capacity.
func (activity *Log) Add(at time.Time, message string) {
	activity.mu.Lock()
	activity.entries = append([]Entry{{At: at, Message: message}}, activity.entries...)
	if len(activity.entries) > activity.capacity {
		activity.entries = activity.entries[:activity.capacity]
	}
	handler := activity.onChange
	activity.mu.Unlock()

	if handler != nil {
		handler()
	}
}

// Entries returns a copy of the entries, newest first.
func (activity *Log) Entries() []Entry {
	activity.mu.Lock()
	defer activity.mu.Unlock()
	return append([]Entry(nil), activity.entries...)
}

// Len returns the number of stored entries.
func (activity *Log) Len() int {
	activity.mu.Lock()
	defer activity.mu.Unlock()
	return len(activity.entries)
}

// Record appends the description of event, if it has one.
func (activity *Log) Record(event phasetimer.Event) {
	for _, message := range Describe(event) {
		activity.Add(event.At, message)
	}
}

// Describe returns the log lines for event, oldest first. Ticks and
// configuration updates produce none.
func Describe(event phasetimer.Event) []string {
	switch event.Type {
	case phasetimer.EventStarted:
		return []string{"Session started: " + event.Snapshot.Phase.Label()}
	case phasetimer.EventPaused:
		return []string{"Timer paused."}
	case phasetimer.EventIdlePause:
		return []string{"Paused after inactivity."}
	case phasetimer.EventResumed:
		return []string{"Timer resumed."}
	case phasetimer.EventPhaseComplete:
		lines := make([]string, 0, 3)
		if event.Skipped {
			lines = append(lines, "Session skipped.")
		}
		lines = append(lines,
			event.Completed.Label()+" completed.",
			"Starting "+strings.ToLower(event.Snapshot.Phase.Label())+".",
		)
		return lines
	case phasetimer.EventResetRequested:
		return []string{"Reset requested, waiting for confirmation."}
	case phasetimer.EventResetCancelled:
		return []string{"Reset canceled."}
	case phasetimer.EventReset:
		return []string{"Timer and session count reset."}
	default:
		return nil
	}
}
