// Package alert announces phase completions with a desktop notification,
// a terminal bell and a short flash of the phase label.
package alert

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"focusforge/internal/core/model"
	"focusforge/internal/core/phasetimer"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Notifier shows an OS notification.
type Notifier interface {
	Notify(title, body string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, body string) error

// Notify calls fn.
func (fn NotifierFunc) Notify(title, body string) error {
	return fn(title, body)
}

// Config contains flash timing values.
type Config struct {
	FlashInterval time.Duration
	FlashCount    int
}

// DefaultConfig flashes three times at 400ms.
func DefaultConfig() Config {
	return Config{FlashInterval: 400 * time.Millisecond, FlashCount: 3}
}

// Alerter reacts to phase completions. All failures are logged and never
// reach the timer.
type Alerter struct {
	mu       sync.Mutex
	config   Config
	clock    clockwork.Clock
	settings func() model.Settings
	notifier Notifier
	bell     io.Writer
	flash    func(on bool)
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Options wires an Alerter. Settings is required; every output is optional.
type Options struct {
	Config   Config
	Clock    clockwork.Clock
	Settings func() model.Settings
	Notifier Notifier
	Bell     io.Writer
	Flash    func(on bool)
}

// New creates an Alerter.
func New(options Options) *Alerter {
	if options.Config.FlashInterval <= 0 || options.Config.FlashCount <= 0 {
		options.Config = DefaultConfig()
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Settings == nil {
		options.Settings = model.DefaultSettings
	}
	return &Alerter{
		config:   options.Config,
		clock:    options.Clock,
		settings: options.Settings,
		notifier: options.Notifier,
		bell:     options.Bell,
		flash:    options.Flash,
	}
}

// Handle alerts on EventPhaseComplete and ignores everything else.
func (alerter *Alerter) Handle(event phasetimer.Event) {
	if event.Type != phasetimer.EventPhaseComplete {
		return
	}
	settings := alerter.settings()

	if settings.Notifications && alerter.notifier != nil {
		title, body := Message(event)
		if err := alerter.notifier.Notify(title, body); err != nil {
			log.Warn().Err(err).Msg("send notification")
		}
	}
	if settings.Sound && alerter.bell != nil {
		if _, err := io.WriteString(alerter.bell, "\a"); err != nil {
			log.Debug().Err(err).Msg("ring bell")
		}
	}
	if alerter.flash != nil {
		alerter.startFlash()
	}
}

// Stop cancels a running flash and waits for it to restore the label.
func (alerter *Alerter) Stop() {
	alerter.mu.Lock()
	if alerter.cancel != nil {
		alerter.cancel()
		alerter.cancel = nil
	}
	alerter.mu.Unlock()
	alerter.wg.Wait()
}

// Message builds the notification text for a completion event.
func Message(event phasetimer.Event) (string, string) {
	next := event.Snapshot.Phase
	title := fmt.Sprintf("%s completed", event.Completed.Label())
	if event.Skipped {
		title = fmt.Sprintf("%s skipped", event.Completed.Label())
	}
	body := fmt.Sprintf("Starting %s (%s).", strings.ToLower(next.Label()), event.Snapshot.Clock())
	return title, body
}

func (alerter *Alerter) startFlash() {
	alerter.mu.Lock()
	if alerter.cancel != nil {
		alerter.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	alerter.cancel = cancel
	alerter.wg.Add(1)
	alerter.mu.Unlock()

	go func() {
		defer alerter.wg.Done()
		defer alerter.flash(false)
		for i := 0; i < alerter.config.FlashCount; i++ {
			alerter.flash(true)
			if !alerter.sleep(ctx, alerter.config.FlashInterval) {
				return
			}
			alerter.flash(false)
			if !alerter.sleep(ctx, alerter.config.FlashInterval) {
				return
			}
		}
	}()
}

func (alerter *Alerter) sleep(ctx context.Context, duration time.Duration) bool {
	timer := alerter.clock.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
