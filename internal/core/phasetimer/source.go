package phasetimer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Source arms a periodic tick callback. The returned cancel function stops
// delivery and must not block waiting for an in-flight callback.
type Source interface {
	Arm(interval time.Duration, tick func()) (cancel func())
}

// ClockSource delivers ticks from a clockwork ticker on its own goroutine.
type ClockSource struct {
	clock clockwork.Clock
}

// NewClockSource creates a Source driven by clock.
func NewClockSource(clock clockwork.Clock) *ClockSource {
	return &ClockSource{clock: clock}
}

// Arm starts a ticker goroutine.
func (source *ClockSource) Arm(interval time.Duration, tick func()) func() {
	ticker := source.clock.NewTicker(interval)
	stopCh := make(chan struct{})

	go func() {
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.Chan():
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(stopCh)
		})
	}
}
